// Package i18n holds the static UI string tables and the language cycle
// used by the terminal client. Article content is translated by the
// backend; only chrome strings live here.
package i18n

// Default is the language articles arrive in from the backend. Detail text
// is only passed through the translate endpoint when the active language
// differs from it.
const Default = "en"

// Supported lists the selectable language codes in cycle order.
var Supported = []string{"en", "es", "zh"}

var labels = map[string]string{
	"en": "English",
	"es": "Español",
	"zh": "中文",
}

var tables = map[string]map[string]string{
	"en": {
		"greeting":        "Hello! I am the AIONEX assistant. Ask me anything about space, astronomy, or NASA.",
		"chat_failure":    "Sorry, I could not reach the assistant. Please try again.",
		"empty_results":   "No articles matched your query. Try different keywords.",
		"no_abstract":     "This article has no abstract and cannot be analyzed.",
		"loading_detail":  "Analyzing article…",
		"searching":       "Searching articles…",
		"answer_missing":  "A clear answer could not be found in the text.",
		"saved":           "Saved",
		"history_title":   "Search History",
		"saved_title":     "Saved Articles",
		"sentiment":       "Sentiment",
		"summary":         "AI Summary",
		"abstract":        "Abstract",
		"reputation":      "Reputation",
		"ask_placeholder": "Ask about this article…",
	},
	"es": {
		"greeting":        "¡Hola! Soy el asistente AIONEX. Pregúntame lo que quieras sobre el espacio, la astronomía o la NASA.",
		"chat_failure":    "Lo siento, no pude contactar al asistente. Inténtalo de nuevo.",
		"empty_results":   "Ningún artículo coincide con tu búsqueda. Prueba otras palabras clave.",
		"no_abstract":     "Este artículo no tiene resumen y no puede analizarse.",
		"loading_detail":  "Analizando artículo…",
		"searching":       "Buscando artículos…",
		"answer_missing":  "No se encontró una respuesta clara en el texto.",
		"saved":           "Guardado",
		"history_title":   "Historial de búsqueda",
		"saved_title":     "Artículos guardados",
		"sentiment":       "Sentimiento",
		"summary":         "Resumen IA",
		"abstract":        "Resumen",
		"reputation":      "Reputación",
		"ask_placeholder": "Pregunta sobre este artículo…",
	},
	"zh": {
		"greeting":        "你好！我是 AIONEX 助手。欢迎向我询问任何关于太空、天文或 NASA 的问题。",
		"chat_failure":    "抱歉，暂时无法连接助手，请稍后再试。",
		"empty_results":   "没有找到匹配的文章，请尝试其他关键词。",
		"no_abstract":     "这篇文章没有摘要，无法进行分析。",
		"loading_detail":  "正在分析文章…",
		"searching":       "正在搜索文章…",
		"answer_missing":  "在文中找不到明确的答案。",
		"saved":           "已收藏",
		"history_title":   "搜索历史",
		"saved_title":     "收藏的文章",
		"sentiment":       "情感倾向",
		"summary":         "AI 摘要",
		"abstract":        "摘要",
		"reputation":      "声誉评分",
		"ask_placeholder": "向这篇文章提问…",
	},
}

// T looks up a UI string for the given language, falling back to English
// and finally to the key itself so a missing entry stays visible.
func T(lang, key string) string {
	if table, ok := tables[lang]; ok {
		if value, ok := table[key]; ok {
			return value
		}
	}
	if value, ok := tables[Default][key]; ok {
		return value
	}
	return key
}

// Label returns the human-readable name of a language code.
func Label(lang string) string {
	if label, ok := labels[lang]; ok {
		return label
	}
	return lang
}

// Valid reports whether lang is a selectable language code.
func Valid(lang string) bool {
	_, ok := tables[lang]
	return ok
}

// Next returns the language following lang in the cycle, wrapping around.
// Unknown codes restart the cycle at the default language.
func Next(lang string) string {
	for i, code := range Supported {
		if code == lang {
			return Supported[(i+1)%len(Supported)]
		}
	}
	return Default
}
