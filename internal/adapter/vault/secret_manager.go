package vault

import (
	"fmt"

	"github.com/hashicorp/vault/api"
)

// SecretManager reads provider credentials from Vault so API keys never land
// in config files on in-vehicle hardware.
type SecretManager struct {
	client *api.Client
}

func NewSecretManager(address, token string) (*SecretManager, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	return &SecretManager{client: client}, nil
}

func (sm *SecretManager) DatabaseURL() (string, error) {
	return sm.readString("secret/data/database", "connection_string")
}

func (sm *SecretManager) OpenAIAPIKey() (string, error) {
	return sm.readString("secret/data/openai", "api_key")
}

func (sm *SecretManager) GroqAPIKey() (string, error) {
	return sm.readString("secret/data/groq", "api_key")
}

func (sm *SecretManager) HuggingFaceAPIKey() (string, error) {
	return sm.readString("secret/data/huggingface", "api_key")
}

func (sm *SecretManager) JWTSecret() (string, error) {
	return sm.readString("secret/data/auth", "jwt_secret")
}

func (sm *SecretManager) LiveKitCredentials() (string, string, error) {
	key, err := sm.readString("secret/data/livekit", "api_key")
	if err != nil {
		return "", "", err
	}
	secret, err := sm.readString("secret/data/livekit", "api_secret")
	if err != nil {
		return "", "", err
	}
	return key, secret, nil
}

func (sm *SecretManager) readString(path, field string) (string, error) {
	secret, err := sm.client.Logical().Read(path)
	if err != nil {
		return "", err
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("vault: no secret at %s", path)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("vault: unexpected secret format at %s", path)
	}
	value, ok := data[field].(string)
	if !ok {
		return "", fmt.Errorf("vault: field %s missing at %s", field, path)
	}
	return value, nil
}
