package domain

import (
	"encoding/json"
	"fmt"
)

// Priority indicates how urgently a response should be surfaced. It affects
// speech volume and UI highlighting only; it never reorders speech playback.
type Priority string

const (
	PriorityNormal    Priority = "normal"
	PriorityHigh      Priority = "high"
	PriorityEmergency Priority = "emergency"
)

// Volume maps a priority to the playback volume used for voice output.
func (p Priority) Volume() float64 {
	switch p {
	case PriorityEmergency:
		return 1.0
	case PriorityHigh:
		return 0.9
	default:
		return 0.8
	}
}

// ActionKind identifies the side effect a response asks the caller to perform.
type ActionKind string

const (
	ActionNavigate         ActionKind = "navigate"
	ActionMiranda          ActionKind = "miranda"
	ActionStatutes         ActionKind = "statutes"
	ActionThreats          ActionKind = "threats"
	ActionDispatch         ActionKind = "dispatch"
	ActionEmergency        ActionKind = "emergency"
	ActionTranslate        ActionKind = "translate"
	ActionThreatAlert      ActionKind = "threat_alert"
	ActionThreatAssessment ActionKind = "threat_assessment"
)

// Action is the closed set of side-effect descriptors a response can carry.
// Each kind has its own concrete type with the fields that kind allows.
type Action interface {
	Kind() ActionKind
}

// NavigateAction tells the UI to switch to another view.
type NavigateAction struct {
	View string `json:"view"`
}

func (NavigateAction) Kind() ActionKind { return ActionNavigate }

// MirandaAction requests Miranda rights delivery in the given language.
type MirandaAction struct {
	Language string `json:"language"`
}

func (MirandaAction) Kind() ActionKind { return ActionMiranda }

// StatutesAction opens the statute lookup tool.
type StatutesAction struct{}

func (StatutesAction) Kind() ActionKind { return ActionStatutes }

// ThreatsAction opens the threat monitoring view.
type ThreatsAction struct{}

func (ThreatsAction) Kind() ActionKind { return ActionThreats }

// DispatchAction notifies dispatch and toggles monitoring flags.
type DispatchAction struct {
	Message       string `json:"message"`
	RequestBackup bool   `json:"requestBackup,omitempty"`
	TrackLocation bool   `json:"trackLocation,omitempty"`
	MonitorAudio  bool   `json:"monitorAudio,omitempty"`
}

func (DispatchAction) Kind() ActionKind { return ActionDispatch }

// EmergencyAction requests immediate backup.
type EmergencyAction struct {
	RequestBackup bool   `json:"requestBackup"`
	Situation     string `json:"situation,omitempty"`
}

func (EmergencyAction) Kind() ActionKind { return ActionEmergency }

// TranslateAction starts translated communication in the given language.
type TranslateAction struct {
	Language     string `json:"language"`
	OriginalText string `json:"originalText,omitempty"`
}

func (TranslateAction) Kind() ActionKind { return ActionTranslate }

// ThreatAlertAction surfaces a detected threat to the officer.
type ThreatAlertAction struct {
	Threat string `json:"threat"`
}

func (ThreatAlertAction) Kind() ActionKind { return ActionThreatAlert }

// ThreatAssessmentAction reports the outcome of a threat assessment.
type ThreatAssessmentAction struct {
	Result string `json:"result"`
}

func (ThreatAssessmentAction) Kind() ActionKind { return ActionThreatAssessment }

// AssistantResponse is the structured reply produced for every utterance.
// Text is always non-empty. VoiceText, when set, is the (usually shorter)
// alternate used only for speech output; speech falls back to Text otherwise.
type AssistantResponse struct {
	Text      string   `json:"text"`
	VoiceText string   `json:"voiceText,omitempty"`
	Action    Action   `json:"-"`
	Priority  Priority `json:"priority,omitempty"`
}

// SpeakableText returns the text handed to the speech queue.
func (r *AssistantResponse) SpeakableText() string {
	if r.VoiceText != "" {
		return r.VoiceText
	}
	return r.Text
}

type responseJSON struct {
	Text      string          `json:"text"`
	VoiceText string          `json:"voiceText,omitempty"`
	Action    json.RawMessage `json:"action,omitempty"`
	Priority  Priority        `json:"priority,omitempty"`
}

// MarshalJSON flattens the action into a {"type": ..., fields...} envelope so
// the wire shape matches what the UI consumes.
func (r AssistantResponse) MarshalJSON() ([]byte, error) {
	out := responseJSON{
		Text:      r.Text,
		VoiceText: r.VoiceText,
		Priority:  r.Priority,
	}

	if r.Action != nil {
		raw, err := marshalAction(r.Action)
		if err != nil {
			return nil, err
		}
		out.Action = raw
	}

	return json.Marshal(out)
}

// UnmarshalJSON reverses MarshalJSON, reconstructing the concrete action type
// from the envelope's "type" tag.
func (r *AssistantResponse) UnmarshalJSON(data []byte) error {
	var in responseJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	r.Text = in.Text
	r.VoiceText = in.VoiceText
	r.Priority = in.Priority
	r.Action = nil

	if len(in.Action) == 0 {
		return nil
	}

	action, err := unmarshalAction(in.Action)
	if err != nil {
		return err
	}
	r.Action = action
	return nil
}

func marshalAction(a Action) (json.RawMessage, error) {
	body, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal action %q: %w", a.Kind(), err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("flatten action %q: %w", a.Kind(), err)
	}
	fields["type"] = string(a.Kind())

	return json.Marshal(fields)
}

func unmarshalAction(raw json.RawMessage) (Action, error) {
	var envelope struct {
		Type ActionKind `json:"type"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}

	var (
		action Action
		err    error
	)
	switch envelope.Type {
	case ActionNavigate:
		var a NavigateAction
		err = json.Unmarshal(raw, &a)
		action = a
	case ActionMiranda:
		var a MirandaAction
		err = json.Unmarshal(raw, &a)
		action = a
	case ActionStatutes:
		action = StatutesAction{}
	case ActionThreats:
		action = ThreatsAction{}
	case ActionDispatch:
		var a DispatchAction
		err = json.Unmarshal(raw, &a)
		action = a
	case ActionEmergency:
		var a EmergencyAction
		err = json.Unmarshal(raw, &a)
		action = a
	case ActionTranslate:
		var a TranslateAction
		err = json.Unmarshal(raw, &a)
		action = a
	case ActionThreatAlert:
		var a ThreatAlertAction
		err = json.Unmarshal(raw, &a)
		action = a
	case ActionThreatAssessment:
		var a ThreatAssessmentAction
		err = json.Unmarshal(raw, &a)
		action = a
	default:
		return nil, fmt.Errorf("unknown action type %q", envelope.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshal action %q: %w", envelope.Type, err)
	}

	return action, nil
}
