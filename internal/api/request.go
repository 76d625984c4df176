package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Supported values mirrored from the backend's request schema.
var (
	Resolutions     = []string{"1280x720", "1920x1080", "3840x2160"}
	NameAlignments  = []string{"left", "center", "right"}
	TextAlignments  = []string{"left", "center", "right", "justify"}
	defaultFontKey  = "noto_sans"
	customNameSplit = "\n"
)

// TextStyle styles either the header message or the patron names.
type TextStyle struct {
	Font  string `json:"font" validate:"required"`
	Size  int    `json:"size" validate:"gte=1,lte=400"`
	Color string `json:"color" validate:"hexcolor"`
	Bold  bool   `json:"bold"`
	Align string `json:"align,omitempty" validate:"omitempty,oneof=left center right justify"`
}

// GenerationRequest is built fresh from the form for every submission.
// Treat it as a value: Clone before handing it to code that may retain it.
type GenerationRequest struct {
	Message        string    `json:"message"`
	CustomNames    []string  `json:"-"`
	Duration       int       `json:"duration" validate:"gte=5,lte=60"`
	Resolution     string    `json:"resolution" validate:"oneof=1280x720 1920x1080 3840x2160"`
	Columns        int       `json:"columns" validate:"gte=1,lte=5"`
	NameAlign      string    `json:"name_align" validate:"oneof=left center right"`
	TruncateLength int       `json:"truncate_length" validate:"gte=0,lte=50"`
	WordWrap       bool      `json:"word_wrap"`
	NameSpacing    bool      `json:"name_spacing"`
	BGColor        string    `json:"bg_color" validate:"hexcolor"`
	UseCache       bool      `json:"use_cache"`
	MessageStyle   TextStyle `json:"message_style"`
	PatronStyle    TextStyle `json:"patron_style"`
}

// DefaultGenerationRequest returns the form defaults the backend also assumes.
func DefaultGenerationRequest() GenerationRequest {
	return GenerationRequest{
		Message:        "This video was made possible by our Patreon supporters:",
		Duration:       15,
		Resolution:     "1280x720",
		Columns:        4,
		NameAlign:      "left",
		TruncateLength: 15,
		BGColor:        "#000000",
		MessageStyle: TextStyle{
			Font:  defaultFontKey,
			Size:  36,
			Color: "#ffffff",
			Bold:  true,
			Align: "left",
		},
		PatronStyle: TextStyle{
			Font:  defaultFontKey,
			Size:  20,
			Color: "#FFD700",
		},
	}
}

// Clone returns a deep copy so the custom-name list is never shared.
func (r GenerationRequest) Clone() GenerationRequest {
	out := r
	if r.CustomNames != nil {
		out.CustomNames = append([]string(nil), r.CustomNames...)
	}
	return out
}

// Normalized returns a copy with the message trimmed and blank custom names dropped.
func (r GenerationRequest) Normalized() GenerationRequest {
	out := r.Clone()
	out.Message = strings.TrimSpace(out.Message)
	names := out.CustomNames[:0]
	for _, name := range out.CustomNames {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		names = nil
	}
	out.CustomNames = names
	out.BGColor = strings.TrimSpace(out.BGColor)
	out.MessageStyle.Font = strings.TrimSpace(out.MessageStyle.Font)
	out.PatronStyle.Font = strings.TrimSpace(out.PatronStyle.Font)
	return out
}

type wireRequest GenerationRequest

type wireEnvelope struct {
	wireRequest
	CustomNames string `json:"custom_names"`
}

// MarshalJSON emits custom_names as the newline-separated text the backend reads.
func (r GenerationRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEnvelope{
		wireRequest: wireRequest(r),
		CustomNames: strings.Join(r.CustomNames, customNameSplit),
	})
}

// UnmarshalJSON accepts custom_names either as newline-separated text or as a list.
func (r *GenerationRequest) UnmarshalJSON(data []byte) error {
	var envelope struct {
		*wireRequest
		CustomNames json.RawMessage `json:"custom_names"`
	}
	envelope.wireRequest = (*wireRequest)(r)
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	names, err := decodeCustomNames(envelope.CustomNames)
	if err != nil {
		return err
	}
	r.CustomNames = names
	return nil
}

func decodeCustomNames(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return splitNames(text), nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("custom_names: expected string or list: %w", err)
	}
	return list, nil
}

func splitNames(text string) []string {
	var names []string
	for _, line := range strings.Split(text, customNameSplit) {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names
}
