// Package i18n holds the user-facing messages of the ordering flow.
package i18n

import (
	"context"
	"fmt"
	"strings"
)

// DefaultLang is used when the agent's language is unknown.
const DefaultLang = "es"

var messages = map[string]map[string]string{
	"es": {
		"order.missing_data":     "Faltan datos para enviar el pedido.",
		"order.missing_customer": "Selecciona un cliente antes de enviar el pedido.",
		"order.empty_cart":       "Tu carrito está vacío.",
		"order.in_progress":      "El pedido se está enviando, espera un momento.",
		"order.sent":             "Pedido enviado correctamente.",
		"order.failed":           "No se pudo enviar el pedido. Código: %s. Mensaje: %s",
		"order.retry":            "Intenta nuevamente.",
		"auth.required":          "No has iniciado sesión o tu sesión ha expirado.",
		"network.unreachable":    "No se pudo conectar al servidor. Verifica tu conexión.",
		"server.error":           "Error del servidor: %d - %s",
		"server.route_not_found": "No se encontró la ruta del servidor (Error 404). Por favor, verifica la dirección de la API.",
		"server.unknown_message": "Mensaje desconocido",
		"cache.corrupt":          "Los datos guardados no son válidos.",
		"unexpected":             "Ocurrió un error inesperado: %s",
		"unknown_status":         "Desconocido",
		"required":               "Requerido",
		"must_be_positive":       "Debe ser mayor que cero",
		"must_not_be_negative":   "No puede ser negativo",
		"invalid_json":           "Solicitud inválida",
	},
	"en": {
		"order.missing_data":     "Missing data to submit the order.",
		"order.missing_customer": "Select a customer before submitting the order.",
		"order.empty_cart":       "Your cart is empty.",
		"order.in_progress":      "The order is being submitted, please wait.",
		"order.sent":             "Order submitted successfully.",
		"order.failed":           "The order could not be submitted. Code: %s. Message: %s",
		"order.retry":            "Please try again.",
		"auth.required":          "You are not signed in or your session has expired.",
		"network.unreachable":    "Could not reach the server. Check your connection.",
		"server.error":           "Server error: %d - %s",
		"server.route_not_found": "Server route not found (Error 404). Please check the API address.",
		"server.unknown_message": "Unknown message",
		"cache.corrupt":          "Saved data is not valid.",
		"unexpected":             "An unexpected error occurred: %s",
		"unknown_status":         "Unknown",
		"required":               "Required",
		"must_be_positive":       "Must be greater than zero",
		"must_not_be_negative":   "Cannot be negative",
		"invalid_json":           "Invalid request",
	},
}

// DetectLanguage picks a supported language from an Accept-Language header.
func DetectLanguage(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if _, ok := messages[base]; ok {
			return base
		}
	}
	return DefaultLang
}

// T translates code, falling back to the default language and then to the code itself.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[DefaultLang][code]; ok {
		return s
	}
	return code
}

// Tf translates code and formats it with args.
func Tf(lang, code string, args ...any) string {
	return fmt.Sprintf(T(lang, code), args...)
}

type ctxKey struct{}

// WithLang stores the request language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// LangFromContext returns the request language, DefaultLang if unset.
func LangFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(ctxKey{}).(string); ok && l != "" {
		return l
	}
	return DefaultLang
}
