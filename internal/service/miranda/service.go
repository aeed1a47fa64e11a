package miranda

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/larkfield/lark-server/internal/ports"
)

// mirandaRights holds the advisement text per supported language. The texts
// are embedded so rights delivery keeps working with no connectivity at all.
var mirandaRights = map[string]string{
	"english":    `You have the right to remain silent. Anything you say can and will be used against you in a court of law. You have the right to an attorney. If you cannot afford an attorney, one will be provided for you. Do you understand the rights I have just read to you? With these rights in mind, do you wish to speak to me?`,
	"spanish":    `Tiene derecho a guardar silencio. Cualquier cosa que diga puede y será usada en su contra en un tribunal. Tiene derecho a un abogado. Si no puede pagar un abogado, se le proporcionará uno. ¿Entiende los derechos que le acabo de leer? Con estos derechos en mente, ¿desea hablar conmigo?`,
	"french":     `Vous avez le droit de garder le silence. Tout ce que vous direz pourra être utilisé contre vous devant un tribunal. Vous avez droit à un avocat. Si vous ne pouvez pas vous permettre un avocat, un vous sera fourni. Comprenez-vous les droits que je viens de vous lire? Avec ces droits à l'esprit, souhaitez-vous me parler?`,
	"mandarin":   `您有权保持沉默。您所说的任何话都可以并将在法庭上用作对您不利的证据。您有权获得律师帮助。如果您无法负担律师费用，将为您提供一位律师。您理解我刚才向您宣读的权利吗？考虑到这些权利，您是否愿意与我交谈？`,
	"vietnamese": `Bạn có quyền giữ im lặng. Bất cứ điều gì bạn nói có thể và sẽ được sử dụng chống lại bạn trong tòa án. Bạn có quyền có luật sư. Nếu bạn không có khả năng chi trả cho một luật sư, một luật sư sẽ được cung cấp cho bạn. Bạn có hiểu các quyền mà tôi vừa đọc cho bạn không? Với những quyền này trong tâm trí, bạn có muốn nói chuyện với tôi không?`,
}

const cacheKeyPrefix = "miranda:rights:"

type Service struct {
	cache ports.Cache
	log   *zap.Logger
}

func NewService(cache ports.Cache, log *zap.Logger) *Service {
	return &Service{cache: cache, log: log}
}

var _ ports.MirandaService = (*Service)(nil)

// GetRights returns the advisement text for the given language. The language
// is matched case-insensitively.
func (s *Service) GetRights(ctx context.Context, language string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(language))
	if key == "" {
		key = "english"
	}
	text, ok := mirandaRights[key]
	if !ok {
		return "", fmt.Errorf("unsupported language: %s", language)
	}
	return text, nil
}

// Languages lists the supported languages in stable order.
func (s *Service) Languages() []string {
	langs := make([]string, 0, len(mirandaRights))
	for lang := range mirandaRights {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// WarmCache pushes every advisement text into the shared cache so clients can
// prefetch the offline bundle in one round trip. Failures are logged and
// skipped; the embedded texts remain authoritative.
func (s *Service) WarmCache(ctx context.Context) {
	for lang, text := range mirandaRights {
		if err := s.cache.Set(ctx, cacheKeyPrefix+lang, text, 24*time.Hour); err != nil {
			s.log.Warn("failed to cache miranda text", zap.String("language", lang), zap.Error(err))
		}
	}
}
