package imgsrc

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantErr   error
		wantOK    bool
		wantError string
		wantHas   bool
	}{
		{
			name:   "ok status",
			body:   `<info proto="0.8"><status>OK</status></info>`,
			wantOK: true,
		},
		{
			name:      "failed status with error",
			body:      `<info proto="0.8"><status>FAIL</status><error>bad password</error></info>`,
			wantOK:    false,
			wantError: "bad password",
			wantHas:   true,
		},
		{
			name:   "failed status without error",
			body:   `<info proto="0.8"><status>FAIL</status></info>`,
			wantOK: false,
		},
		{
			name:   "xml declaration",
			body:   "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<info proto=\"0.8\">\n\t<status>OK</status>\n</info>",
			wantOK: true,
		},
		{
			name:    "wrong root",
			body:    `<lfm proto="0.8"><status>OK</status></lfm>`,
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "not xml",
			body:    `<html><body>502 Bad Gateway`,
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "empty body",
			body:    ``,
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "missing status",
			body:    `<info proto="0.8"><store>1</store></info>`,
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "protocol mismatch",
			body:    `<info proto="0.7"><status>OK</status></info>`,
			wantErr: ErrProtocolMismatch,
		},
		{
			name:    "missing proto",
			body:    `<info><status>OK</status></info>`,
			wantErr: ErrProtocolMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := Validate([]byte(tt.body))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if env.OK != tt.wantOK {
				t.Errorf("expected OK=%v, got %v", tt.wantOK, env.OK)
			}
			if env.ErrorMessage != tt.wantError {
				t.Errorf("expected error message %q, got %q", tt.wantError, env.ErrorMessage)
			}
			if env.HasError != tt.wantHas {
				t.Errorf("expected HasError=%v, got %v", tt.wantHas, env.HasError)
			}
		})
	}
}

func TestValidate_MalformedKeepsBody(t *testing.T) {
	body := []byte(`<html>oops</html>`)

	_, err := Validate(body)

	var imgErr *Error
	if !errors.As(err, &imgErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if string(imgErr.Body) != string(body) {
		t.Errorf("expected body %q, got %q", body, imgErr.Body)
	}
}

func TestValidate_ProtocolMismatchIsNotMalformed(t *testing.T) {
	_, err := Validate([]byte(`<info proto="0.9"><status>OK</status></info>`))
	if errors.Is(err, ErrMalformedResponse) {
		t.Error("protocol mismatch must not match ErrMalformedResponse")
	}
}

func TestValidate_Windows1251(t *testing.T) {
	// "Отпуск" in windows-1251
	body := append([]byte(`<?xml version="1.0" encoding="windows-1251"?><info proto="0.8"><status>OK</status><store>1</store><albums><album id="7"><name>`),
		0xce, 0xf2, 0xef, 0xf3, 0xf1, 0xea)
	body = append(body, []byte(`</name></album></albums></info>`)...)

	env, err := Validate(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(env.Albums) != 1 {
		t.Fatalf("expected 1 album, got %d", len(env.Albums))
	}
	if got := text(env.Albums[0].Name); got != "Отпуск" {
		t.Errorf("expected name %q, got %q", "Отпуск", got)
	}
}

func TestEnvelope_Failure(t *testing.T) {
	withError := &Envelope{HasError: true, ErrorMessage: "quota exceeded"}
	if got := withError.Failure(); got != "quota exceeded" {
		t.Errorf("expected %q, got %q", "quota exceeded", got)
	}

	withoutError := &Envelope{}
	if got := withoutError.Failure(); got != "unknown" {
		t.Errorf("expected %q, got %q", "unknown", got)
	}
}
