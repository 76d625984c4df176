package api_test

import (
	"encoding/json"
	"strings"
	"testing"

	"creditspanel/internal/api"
)

func TestMarshalJoinsCustomNames(t *testing.T) {
	req := api.DefaultGenerationRequest()
	req.Message = "Thanks!"
	req.CustomNames = []string{"Ada", "Grace"}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	if got := raw["custom_names"]; got != "Ada\nGrace" {
		t.Fatalf("custom_names = %#v", got)
	}
	if got := raw["message"]; got != "Thanks!" {
		t.Fatalf("message = %#v", got)
	}
	style, ok := raw["message_style"].(map[string]any)
	if !ok || style["font"] != "noto_sans" {
		t.Fatalf("message_style = %#v", raw["message_style"])
	}
}

func TestUnmarshalAcceptsTextOrList(t *testing.T) {
	var fromText api.GenerationRequest
	if err := json.Unmarshal([]byte(`{"message":"hi","custom_names":"A\n\n B \n"}`), &fromText); err != nil {
		t.Fatalf("unmarshal text: %v", err)
	}
	if strings.Join(fromText.CustomNames, "|") != "A|B" {
		t.Fatalf("unexpected names %#v", fromText.CustomNames)
	}

	var fromList api.GenerationRequest
	if err := json.Unmarshal([]byte(`{"message":"hi","custom_names":["X","Y"],"duration":20}`), &fromList); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if strings.Join(fromList.CustomNames, "|") != "X|Y" || fromList.Duration != 20 {
		t.Fatalf("unexpected request %#v", fromList)
	}

	var bad api.GenerationRequest
	if err := json.Unmarshal([]byte(`{"custom_names":42}`), &bad); err == nil {
		t.Fatal("expected error for numeric custom_names")
	}
}

func TestCloneDoesNotShareNames(t *testing.T) {
	req := api.DefaultGenerationRequest()
	req.CustomNames = []string{"A"}
	clone := req.Clone()
	clone.CustomNames[0] = "Z"
	if req.CustomNames[0] != "A" {
		t.Fatal("clone mutated original custom names")
	}
}

func TestNormalizedTrims(t *testing.T) {
	req := api.DefaultGenerationRequest()
	req.Message = "  Thanks!  "
	req.CustomNames = []string{" ", " Ada "}
	got := req.Normalized()
	if got.Message != "Thanks!" {
		t.Fatalf("message = %q", got.Message)
	}
	if len(got.CustomNames) != 1 || got.CustomNames[0] != "Ada" {
		t.Fatalf("names = %#v", got.CustomNames)
	}
	if req.Message != "  Thanks!  " {
		t.Fatal("Normalized mutated the receiver")
	}
}

func TestValidateRequest(t *testing.T) {
	if err := api.ValidateRequest(api.DefaultGenerationRequest()); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*api.GenerationRequest)
		want   string
	}{
		{"duration low", func(r *api.GenerationRequest) { r.Duration = 4 }, "duration must be at least 5"},
		{"duration high", func(r *api.GenerationRequest) { r.Duration = 61 }, "duration must be at most 60"},
		{"columns", func(r *api.GenerationRequest) { r.Columns = 6 }, "columns must be at most 5"},
		{"resolution", func(r *api.GenerationRequest) { r.Resolution = "640x480" }, "resolution must be one of"},
		{"colour", func(r *api.GenerationRequest) { r.BGColor = "black" }, "bg_color must be a hex colour"},
		{"style size", func(r *api.GenerationRequest) { r.PatronStyle.Size = 0 }, "patron_style.size must be at least 1"},
		{"style font", func(r *api.GenerationRequest) { r.MessageStyle.Font = "" }, "message_style.font is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := api.DefaultGenerationRequest()
			tc.mutate(&req)
			err := api.ValidateRequest(req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not contain %q", err.Error(), tc.want)
			}
		})
	}
}
