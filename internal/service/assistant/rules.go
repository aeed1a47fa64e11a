package assistant

import (
	"fmt"
	"strings"

	"github.com/larkfield/lark-server/internal/domain"
)

// classification is what a matched rule produces: the response plus the
// activity label the match establishes, if any.
type classification struct {
	response *domain.AssistantResponse
	activity string
}

// commandInput bundles everything a rule may consult.
type commandInput struct {
	// input is the lower-cased utterance all predicates match against.
	input    string
	userName string
	ctx      *Context
}

// rule pairs a named predicate with its response builder. Rules are evaluated
// in table order, first match wins; the order encodes the precedence among
// overlapping keyword sets and must not be rearranged.
type rule struct {
	intent  string
	match   func(in *commandInput) bool
	respond func(in *commandInput) classification
}

func containsAny(input string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(input, kw) {
			return true
		}
	}
	return false
}

// detectLanguage resolves the spoken language from a fixed check order:
// Spanish is the implied default, then Mandarin, French, and Vietnamese
// override in turn. An utterance naming two languages therefore resolves to
// the last one checked, not the first one spoken.
func detectLanguage(input string) string {
	language := "Spanish"
	if strings.Contains(input, "mandarin") {
		language = "Mandarin"
	}
	if strings.Contains(input, "french") {
		language = "French"
	}
	if strings.Contains(input, "vietnamese") {
		language = "Vietnamese"
	}
	return language
}

// commandRules is the ordered intent table for free-text commands.
var commandRules = []rule{
	{
		intent: "pursuit",
		match: func(in *commandInput) bool {
			return containsAny(in.input, "chase", "pursuit", "following suspect")
		},
		respond: func(in *commandInput) classification {
			return classification{
				response: &domain.AssistantResponse{
					Text: fmt.Sprintf("Tracking your location now, %s. I will send updates to dispatch. Keep your eyes on the suspect.", in.userName),
					Action: domain.DispatchAction{
						Message:       "Officer in pursuit",
						RequestBackup: true,
						TrackLocation: true,
					},
					Priority: domain.PriorityHigh,
				},
				activity: ActivityPursuit,
			}
		},
	},
	{
		intent: "language",
		match: func(in *commandInput) bool {
			return containsAny(in.input, "spanish", "mandarin", "french", "vietnamese")
		},
		respond: func(in *commandInput) classification {
			language := detectLanguage(in.input)
			if strings.Contains(in.input, "miranda") {
				return classification{
					response: &domain.AssistantResponse{
						Text:   fmt.Sprintf("Delivering Miranda Rights in %s now. I will translate any responses for you.", language),
						Action: domain.MirandaAction{Language: strings.ToLower(language)},
					},
				}
			}
			return classification{
				response: &domain.AssistantResponse{
					Text:   fmt.Sprintf("Translating to %s now. I will facilitate communication for you.", language),
					Action: domain.TranslateAction{Language: strings.ToLower(language)},
				},
			}
		},
	},
	{
		intent: "miranda",
		match: func(in *commandInput) bool {
			return strings.Contains(in.input, "miranda")
		},
		respond: func(in *commandInput) classification {
			return classification{
				response: &domain.AssistantResponse{
					Text:   fmt.Sprintf("Delivering Miranda Rights now, %s.", in.userName),
					Action: domain.MirandaAction{Language: "english"},
				},
			}
		},
	},
	{
		intent: "domestic",
		match: func(in *commandInput) bool {
			return containsAny(in.input, "domestic", "disturbance")
		},
		respond: func(in *commandInput) classification {
			return classification{
				response: &domain.AssistantResponse{
					Text: fmt.Sprintf("Notifying dispatch of your location and situation now, %s. I will monitor audio for signs of escalation and alert backup if needed.", in.userName),
					Action: domain.DispatchAction{
						Message:      "Responding to domestic disturbance",
						MonitorAudio: true,
					},
					Priority: domain.PriorityHigh,
				},
				activity: ActivityDomesticCall,
			}
		},
	},
	{
		intent: "backup",
		match: func(in *commandInput) bool {
			return containsAny(in.input, "backup", "help", "emergency")
		},
		respond: func(in *commandInput) classification {
			return classification{
				response: &domain.AssistantResponse{
					Text:      fmt.Sprintf("Requesting backup from dispatch now, %s. I will monitor audio for threats and provide updates. Stay safe.", in.userName),
					VoiceText: fmt.Sprintf("Requesting backup now, %s. Stay safe.", in.userName),
					Action:    domain.EmergencyAction{RequestBackup: true},
					Priority:  domain.PriorityEmergency,
				},
			}
		},
	},
	{
		intent: "threat_assessment",
		match: func(in *commandInput) bool {
			return containsAny(in.input, "risk", "threat", "assess")
		},
		respond: func(in *commandInput) classification {
			if latest, ok := in.ctx.LatestThreat(); ok {
				return classification{
					response: &domain.AssistantResponse{
						Text:     fmt.Sprintf("%s detected—proceed with extreme caution, %s.", latest, in.userName),
						Action:   domain.ThreatAlertAction{Threat: latest},
						Priority: domain.PriorityHigh,
					},
				}
			}
			return classification{
				response: &domain.AssistantResponse{
					Text:   fmt.Sprintf("No recent threats detected, %s. Proceed with standard protocol.", in.userName),
					Action: domain.ThreatAssessmentAction{Result: "clear"},
				},
			}
		},
	},
	{
		intent: "statutes",
		match: func(in *commandInput) bool {
			return containsAny(in.input, "statute", "law", "code")
		},
		respond: func(in *commandInput) classification {
			return classification{
				response: &domain.AssistantResponse{
					Text:   fmt.Sprintf("Opening statute lookup for you, %s. What specific statute are you looking for?", in.userName),
					Action: domain.StatutesAction{},
				},
			}
		},
	},
	{
		intent: "report",
		match: func(in *commandInput) bool {
			return strings.Contains(in.input, "report")
		},
		respond: func(in *commandInput) classification {
			return classification{
				response: &domain.AssistantResponse{
					Text:   fmt.Sprintf("I'll help you write a report, %s. Let me take you to the report writing tool.", in.userName),
					Action: domain.NavigateAction{View: "tools"},
				},
			}
		},
	},
	{
		intent: "greeting",
		match: func(in *commandInput) bool {
			return containsAny(in.input, "hello", "hi", "hey")
		},
		respond: func(in *commandInput) classification {
			return classification{
				response: &domain.AssistantResponse{
					Text: fmt.Sprintf("Hello %s! I'm here to assist you. How can I help with your current activities?", in.userName),
				},
			}
		},
	},
}

// defaultResponse is the fallthrough when no rule matches: the reply depends
// on the current activity so the assistant stays on topic mid-incident.
func defaultResponse(in *commandInput) classification {
	switch in.ctx.CurrentActivity() {
	case ActivityPursuit:
		return classification{
			response: &domain.AssistantResponse{
				Text: fmt.Sprintf("Still tracking your pursuit, %s. Dispatch has been updated with your current location. Do you need backup?", in.userName),
			},
		}
	case ActivityDomesticCall:
		return classification{
			response: &domain.AssistantResponse{
				Text: fmt.Sprintf("I'm monitoring the situation, %s. No threats detected so far. Let me know if you need anything specific.", in.userName),
			},
		}
	default:
		return classification{
			response: &domain.AssistantResponse{
				Text: fmt.Sprintf("I understand, %s. I'm here to assist with Miranda rights, statute lookups, threat detection, or report writing. What do you need?", in.userName),
			},
		}
	}
}

// classify runs the table in order and falls back to defaultResponse. It
// returns the matched intent name for metrics.
func classify(in *commandInput) (string, classification) {
	for _, r := range commandRules {
		if r.match(in) {
			return r.intent, r.respond(in)
		}
	}
	return "default", defaultResponse(in)
}
