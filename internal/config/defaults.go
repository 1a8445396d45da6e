package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.textModel", "")
	v.SetDefault("llm.visionModel", "")
	v.SetDefault("llm.geminiApiKey", "")
	v.SetDefault("llm.openaiApiKey", "")
	v.SetDefault("llm.anthropicApiKey", "")
	v.SetDefault("llm.openaiBaseUrl", "")
	v.SetDefault("llm.maxTokens", 4096)
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.maxConcurrency", 6)
	v.SetDefault("llm.requestsPerSecond", 4.0)
	v.SetDefault("llm.burst", 4)
	v.SetDefault("llm.maxRetries", 2)
	v.SetDefault("llm.initialBackoff", time.Second)

	v.SetDefault("llm.circuitBreaker.enabled", true)
	v.SetDefault("llm.circuitBreaker.minRequests", 5)
	v.SetDefault("llm.circuitBreaker.failureRatio", 0.6)
	v.SetDefault("llm.circuitBreaker.openTimeout", 30*time.Second)
	v.SetDefault("llm.circuitBreaker.halfOpenRequests", 1)

	// Capture geometry is fixed so image sizes stay predictable for the vision model.
	v.SetDefault("browser.execPath", "")
	v.SetDefault("browser.sessionTimeout", 90*time.Second)
	v.SetDefault("browser.viewportWidth", 1240)
	v.SetDefault("browser.segmentHeight", 1754)
	v.SetDefault("browser.maxSegments", 20)
	v.SetDefault("browser.pdfScale", 2.0)
	v.SetDefault("browser.pdfjsUrl", "https://cdnjs.cloudflare.com/ajax/libs/pdf.js/3.11.174/pdf.min.js")
	v.SetDefault("browser.pdfjsWorkerUrl", "https://cdnjs.cloudflare.com/ajax/libs/pdf.js/3.11.174/pdf.worker.min.js")

	v.SetDefault("raster.maxPages", 10)

	v.SetDefault("render.style", "classic")

	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.userAgent", "Mozilla/5.0 (compatible; ResumeStudio/1.0)")
	v.SetDefault("fetch.renderFallback", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("metrics.addr", "")
}
