package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNewServerClassification(t *testing.T) {
	tests := []struct {
		status int
		kind   Kind
		code   string
	}{
		{http.StatusUnauthorized, KindAuth, CodeNotAuthenticated},
		{http.StatusForbidden, KindAuth, CodeNotAuthenticated},
		{http.StatusNotFound, KindServer, CodeRouteNotFound},
		{http.StatusInternalServerError, KindServer, CodeServerError},
		{http.StatusBadRequest, KindServer, CodeServerError},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := NewServer(tt.status, "detail")
			if err.Kind != tt.kind || err.Code != tt.code || err.Status != tt.status {
				t.Fatalf("got %+v", err)
			}
		})
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("submit: %w", NewNetwork(errors.New("connection refused")))
	if KindOf(err) != KindNetwork {
		t.Fatalf("expected NETWORK, got %s", KindOf(err))
	}
	if !Is(err, KindNetwork) || Is(err, KindServer) {
		t.Fatal("Is mismatch")
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Fatal("plain errors are unknown")
	}
	if Is(nil, KindUnknown) {
		t.Fatal("nil is never classified")
	}
}

func TestRouteNotFoundAndRetryable(t *testing.T) {
	if !RouteNotFound(NewServer(404, "")) {
		t.Fatal("404 should be route not found")
	}
	if RouteNotFound(NewServer(500, "")) {
		t.Fatal("500 is not route not found")
	}
	if !Retryable(NewNetwork(nil)) || !Retryable(NewServer(503, "")) {
		t.Fatal("network and server errors are retryable")
	}
	if Retryable(NewValidation(CodeEmptyCart)) || Retryable(ErrSubmissionInProgress) {
		t.Fatal("validation and conflict are not retryable")
	}
}

func TestErrorString(t *testing.T) {
	got := NewServer(500, "boom").Error()
	want := "SERVER: server.error (status 500): boom"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		lang string
		want string
	}{
		{"validation", NewValidation(CodeMissingOrderData), "es", "Faltan datos para enviar el pedido."},
		{"server with detail", NewServer(500, "boom"), "es", "Error del servidor: 500 - boom"},
		{"server without detail", NewServer(502, ""), "en", "Server error: 502 - Unknown message"},
		{"network", NewNetwork(errors.New("dial")), "en", "Could not reach the server. Check your connection."},
		{"plain", errors.New("oops"), "en", "An unexpected error occurred: oops"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err, tt.lang); got != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestOrderFailureMessage(t *testing.T) {
	if got := OrderFailureMessage(NewServer(404, "x"), "es"); got != "No se encontró la ruta del servidor (Error 404). Por favor, verifica la dirección de la API." {
		t.Fatalf("404: got %q", got)
	}
	if got := OrderFailureMessage(NewServer(400, "Cliente bloqueado"), "es"); got != "No se pudo enviar el pedido. Código: 400. Mensaje: Cliente bloqueado" {
		t.Fatalf("400: got %q", got)
	}
	if got := OrderFailureMessage(NewNetwork(errors.New("eof")), "es"); got != "No se pudo enviar el pedido. Código: Desconocido. Mensaje: Intenta nuevamente." {
		t.Fatalf("network: got %q", got)
	}
	if got := OrderFailureMessage(NewValidation(CodeEmptyCart), "en"); got != "Your cart is empty." {
		t.Fatalf("validation: got %q", got)
	}
}
