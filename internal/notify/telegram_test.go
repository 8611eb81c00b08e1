// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/paper-hunter/pkg/types"
)

func TestNewNoopWithoutCredentials(t *testing.T) {
	tests := []types.TelegramConfig{
		{},
		{BotToken: "12345:token"},
		{ChatID: "-100987"},
		{BotToken: "  ", ChatID: "-100987"},
	}
	for _, cfg := range tests {
		n := New(cfg, http.DefaultClient)
		if _, ok := n.(noopNotifier); !ok {
			t.Errorf("New(%+v) should return noop notifier", cfg)
		}
		// Noop calls never fail, even with nonsense arguments.
		if err := n.SendMessage(context.Background(), "hello"); err != nil {
			t.Errorf("noop SendMessage error = %v", err)
		}
		if err := n.SendPhoto(context.Background(), "/no/such/file.png", ""); err != nil {
			t.Errorf("noop SendPhoto error = %v", err)
		}
	}
}

func TestSendMessage(t *testing.T) {
	var gotPath, gotChatID, gotText, gotPreview string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		r.ParseForm()
		gotChatID = r.PostForm.Get("chat_id")
		gotText = r.PostForm.Get("text")
		gotPreview = r.PostForm.Get("disable_web_page_preview")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	old := telegramAPIBase
	telegramAPIBase = ts.URL
	defer func() { telegramAPIBase = old }()

	n := New(types.TelegramConfig{BotToken: "12345:token", ChatID: "-100987"}, ts.Client())
	if err := n.SendMessage(context.Background(), "new paper posted"); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	if gotPath != "/bot12345:token/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if gotChatID != "-100987" {
		t.Errorf("chat_id = %q", gotChatID)
	}
	if gotText != "new paper posted" {
		t.Errorf("text = %q", gotText)
	}
	if gotPreview != "true" {
		t.Errorf("disable_web_page_preview = %q", gotPreview)
	}
}

func TestSendPhoto(t *testing.T) {
	photoPath := filepath.Join(t.TempDir(), "cover.png")
	if err := os.WriteFile(photoPath, []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	var gotPath, gotChatID, gotCaption, gotFilename, gotFile string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parsing multipart form: %v", err)
			return
		}
		gotChatID = r.FormValue("chat_id")
		gotCaption = r.FormValue("caption")
		file, header, err := r.FormFile("photo")
		if err != nil {
			t.Errorf("photo part missing: %v", err)
			return
		}
		defer file.Close()
		gotFilename = header.Filename
		buf := make([]byte, 64)
		nread, _ := file.Read(buf)
		gotFile = string(buf[:nread])
		w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	old := telegramAPIBase
	telegramAPIBase = ts.URL
	defer func() { telegramAPIBase = old }()

	n := New(types.TelegramConfig{BotToken: "12345:token", ChatID: "-100987"}, ts.Client())
	if err := n.SendPhoto(context.Background(), photoPath, "first page"); err != nil {
		t.Fatalf("SendPhoto() error = %v", err)
	}

	if gotPath != "/bot12345:token/sendPhoto" {
		t.Errorf("path = %q", gotPath)
	}
	if gotChatID != "-100987" || gotCaption != "first page" {
		t.Errorf("chat_id = %q, caption = %q", gotChatID, gotCaption)
	}
	if gotFilename != "cover.png" {
		t.Errorf("filename = %q", gotFilename)
	}
	if gotFile != "png-bytes" {
		t.Errorf("file content = %q", gotFile)
	}
}

func TestSendMessageAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer ts.Close()

	old := telegramAPIBase
	telegramAPIBase = ts.URL
	defer func() { telegramAPIBase = old }()

	n := New(types.TelegramConfig{BotToken: "12345:token", ChatID: "-1"}, ts.Client())
	err := n.SendMessage(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error on HTTP 400")
	}
}

func TestSendPhotoMissingFile(t *testing.T) {
	n := New(types.TelegramConfig{BotToken: "12345:token", ChatID: "-100987"}, http.DefaultClient)
	if err := n.SendPhoto(context.Background(), "/no/such/cover.png", ""); err == nil {
		t.Fatal("expected error for missing photo file")
	}
}
