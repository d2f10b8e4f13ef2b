package routes

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestDecodeImagePayloadAcceptsAllowedTypes(t *testing.T) {
	data := base64.StdEncoding.EncodeToString([]byte("fake image bytes"))
	for _, mime := range []string{"image/jpeg", "image/png", "image/webp"} {
		payload := "data:" + mime + ";base64," + data
		size, err := decodeImagePayload(payload, maxAvatarBytes)
		if err != nil {
			t.Errorf("%s rejected: %v", mime, err)
		}
		if size != len("fake image bytes") {
			t.Errorf("%s: expected size %d, got %d", mime, len("fake image bytes"), size)
		}
	}
}

func TestDecodeImagePayloadRejectsOtherTypes(t *testing.T) {
	data := base64.StdEncoding.EncodeToString([]byte("<svg/>"))
	if _, err := decodeImagePayload("data:image/svg+xml;base64,"+data, maxAvatarBytes); err == nil {
		t.Fatal("expected rejection of svg payload")
	}
	if _, err := decodeImagePayload("data:application/pdf;base64,"+data, maxAvatarBytes); err == nil {
		t.Fatal("expected rejection of pdf payload")
	}
}

func TestDecodeImagePayloadEnforcesSizeLimit(t *testing.T) {
	big := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("x", 2048)))
	if _, err := decodeImagePayload("data:image/png;base64,"+big, 1024); err == nil {
		t.Fatal("expected rejection of oversize payload")
	}
}

func TestDecodeImagePayloadRejectsBadBase64(t *testing.T) {
	if _, err := decodeImagePayload("data:image/png;base64,!!!not-base64!!!", maxAvatarBytes); err == nil {
		t.Fatal("expected rejection of invalid base64")
	}
	if _, err := decodeImagePayload("data:image/png,rawdata", maxAvatarBytes); err == nil {
		t.Fatal("expected rejection of non-base64 data URI")
	}
}

func TestDecodeImagePayloadBareBase64DefaultsToJPEG(t *testing.T) {
	data := base64.StdEncoding.EncodeToString([]byte("jpeg bytes"))
	if _, err := decodeImagePayload(data, maxAvatarBytes); err != nil {
		t.Fatalf("bare base64 rejected: %v", err)
	}
}

func TestPayloadMimeType(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    string
	}{
		{"data uri png", "data:image/png;base64,AAAA", "image/png"},
		{"data uri webp", "data:image/webp;base64,AAAA", "image/webp"},
		{"bare base64 defaults to jpeg", "AAAA", "image/jpeg"},
		{"malformed data uri defaults to jpeg", "data:image/png,AAAA", "image/jpeg"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := payloadMimeType(tc.payload); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
