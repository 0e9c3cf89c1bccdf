package models

import (
	"strings"
	"testing"
)

func TestCreateCommentRequestContentLength(t *testing.T) {
	// Sınır code point cinsindendir, byte değil — her biri 3 byte'lık
	// 2000 karakterlik içerik GEÇERLİDİR.
	multibyte := strings.Repeat("ğ", MaxCommentLength)

	req := &CreateCommentRequest{Content: multibyte}
	if err := req.Validate(); err != nil {
		t.Fatalf("2000 code points must be valid: %v", err)
	}

	req = &CreateCommentRequest{Content: multibyte + "x"}
	if err := req.Validate(); err == nil {
		t.Fatal("2001 code points must be rejected")
	}
}

func TestCreateCommentRequestEmptyContent(t *testing.T) {
	cases := []string{"", "   ", "\n\t"}
	for _, content := range cases {
		req := &CreateCommentRequest{Content: content}
		if err := req.Validate(); err == nil {
			t.Errorf("content %q should be rejected", content)
		}
	}
}

func TestCreateCommentRequestEmptyParentID(t *testing.T) {
	empty := "  "
	req := &CreateCommentRequest{Content: "merhaba", ParentID: &empty}
	if err := req.Validate(); err == nil {
		t.Fatal("whitespace-only parent_id should be rejected")
	}

	req = &CreateCommentRequest{Content: "merhaba", ParentID: nil}
	if err := req.Validate(); err != nil {
		t.Fatalf("nil parent_id is a root comment: %v", err)
	}
}
