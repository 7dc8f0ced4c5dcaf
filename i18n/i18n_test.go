package i18n

import (
	"context"
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	if DetectLanguage("en-US,en;q=0.9") != "en" {
		t.Fatalf("expected en")
	}
	if DetectLanguage("EN-gb") != "en" {
		t.Fatalf("expected en for EN-gb")
	}
	if DetectLanguage("es-HN,es;q=0.8") != "es" {
		t.Fatalf("expected es")
	}
	if DetectLanguage("fr-FR,en;q=0.5") != "en" {
		t.Fatalf("expected en as second choice")
	}
	if DetectLanguage("") != "es" {
		t.Fatalf("expected default es")
	}
}

func TestTranslations(t *testing.T) {
	if T("en", "required") != "Required" {
		t.Fatalf("expected Required")
	}
	if T("es", "required") != "Requerido" {
		t.Fatalf("expected Requerido")
	}
	// unknown code -> fallback to code
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> fallback to es translation
	if T("fr", "order.sent") != "Pedido enviado correctamente." {
		t.Fatalf("expected es fallback for fr lang")
	}
}

func TestTf(t *testing.T) {
	got := Tf("es", "server.error", 500, "boom")
	if got != "Error del servidor: 500 - boom" {
		t.Fatalf("got %q", got)
	}
}

func TestLangContext(t *testing.T) {
	if LangFromContext(context.Background()) != "es" {
		t.Fatal("expected default language")
	}
	if LangFromContext(WithLang(context.Background(), "en")) != "en" {
		t.Fatal("expected en from context")
	}
}
