package translator

// Defaults for a request built by NewRequest.
const (
	DefaultBaseURL = "http://localhost:5000"
	AutoDetect     = "auto"
	DefaultTarget  = "en"
	FormatText     = "text"
	FormatHTML     = "html"
)

// TranslateRequest is the body of POST /translate. Field order is part of
// the wire format.
type TranslateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

// DetectedLanguage is reported by the endpoint when the source is "auto".
type DetectedLanguage struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// TranslateResponse is a successful POST /translate result.
type TranslateResponse struct {
	TranslatedText   string            `json:"translatedText"`
	DetectedLanguage *DetectedLanguage `json:"detectedLanguage,omitempty"`
}

// Language is one entry of GET /languages.
type Language struct {
	Code    string   `json:"code"`
	Name    string   `json:"name"`
	Targets []string `json:"targets"`
}

// NewRequest builds a request for text with automatic source detection and
// English as the target. The text is used verbatim.
func NewRequest(text string) TranslateRequest {
	return TranslateRequest{
		Q:      text,
		Source: AutoDetect,
		Target: DefaultTarget,
		Format: FormatText,
	}
}
