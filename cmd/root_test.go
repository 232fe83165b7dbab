package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/valpere/libretran/internal/translator"
)

// endpoint is a fake translation service that records what it receives.
type endpoint struct {
	*httptest.Server
	calls atomic.Int32

	mu   sync.Mutex
	body []byte
}

func (e *endpoint) lastBody() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.body
}

func newEndpoint(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *endpoint {
	t.Helper()
	e := &endpoint{}
	e.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		e.mu.Lock()
		e.body = body
		e.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(e.Close)
	return e
}

func respondWith(status int, body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := newApp()
	defer a.sync()
	root := newRootCmd(a)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRoot_Success(t *testing.T) {
	e := newEndpoint(t, respondWith(http.StatusOK, `{"translatedText": "X"}`))

	out, err := run(t, "--url", e.URL, "Хай")

	require.NoError(t, err)
	require.Equal(t, "X\n", out)
	require.EqualValues(t, 1, e.calls.Load())
}

func TestRoot_HTTPErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   string
	}{
		{name: "not found", status: http.StatusNotFound, want: "Error: 404\n"},
		{name: "internal error", status: http.StatusInternalServerError, want: "Error: 500\n"},
		{name: "bad request", status: http.StatusBadRequest, want: "Error: 400\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEndpoint(t, respondWith(tt.status, `{"error":"nope"}`))

			out, err := run(t, "--url", e.URL, "hello")

			require.Equal(t, tt.want, out)
			var httpErr *translator.HTTPError
			require.True(t, errors.As(err, &httpErr))
			require.Equal(t, tt.status, httpErr.StatusCode)
		})
	}
}

func TestRoot_MissingText(t *testing.T) {
	e := newEndpoint(t, respondWith(http.StatusOK, `{"translatedText":"never"}`))

	out, err := run(t, "--url", e.URL)

	require.ErrorIs(t, err, translator.ErrMissingText)
	require.Empty(t, out)
	require.EqualValues(t, 0, e.calls.Load())
}

func TestRoot_RequestBody(t *testing.T) {
	e := newEndpoint(t, respondWith(http.StatusOK, `{"translatedText":"hello"}`))

	_, err := run(t, "--url", e.URL, "hello")

	require.NoError(t, err)
	require.Equal(t, `{"q":"hello","source":"auto","target":"en","format":"text"}`, strings.TrimSpace(string(e.lastBody())))
}

func TestRoot_NoRetry(t *testing.T) {
	var first atomic.Bool
	e := newEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		if first.CompareAndSwap(false, true) {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"translatedText":"second"}`))
	})

	out, err := run(t, "--url", e.URL, "hello")

	require.Error(t, err)
	require.Equal(t, "Error: 500\n", out)
	require.EqualValues(t, 1, e.calls.Load())
}

func TestRoot_LanguageFlags(t *testing.T) {
	e := newEndpoint(t, respondWith(http.StatusOK, `{"translatedText":"Guten Morgen"}`))

	out, err := run(t, "--url", e.URL, "--source", "en", "-t", "de", "--format", "html", "Good morning")

	require.NoError(t, err)
	require.Equal(t, "Guten Morgen\n", out)

	var body translator.TranslateRequest
	require.NoError(t, json.Unmarshal(e.lastBody(), &body))
	require.Equal(t, translator.TranslateRequest{Q: "Good morning", Source: "en", Target: "de", Format: "html"}, body)
}

func TestRoot_EnvironmentOverridesDefaults(t *testing.T) {
	e := newEndpoint(t, respondWith(http.StatusOK, `{"translatedText":"Доброго ранку"}`))
	t.Setenv("LIBRETRAN_URL", e.URL)
	t.Setenv("LIBRETRAN_TARGET", "uk")

	out, err := run(t, "Good morning")

	require.NoError(t, err)
	require.Equal(t, "Доброго ранку\n", out)

	var body translator.TranslateRequest
	require.NoError(t, json.Unmarshal(e.lastBody(), &body))
	require.Equal(t, "uk", body.Target)
}

func TestRoot_ExtraArgumentsIgnored(t *testing.T) {
	e := newEndpoint(t, respondWith(http.StatusOK, `{"translatedText":"one"}`))

	out, err := run(t, "--url", e.URL, "uno", "dos")

	require.NoError(t, err)
	require.Equal(t, "one\n", out)

	var body translator.TranslateRequest
	require.NoError(t, json.Unmarshal(e.lastBody(), &body))
	require.Equal(t, "uno", body.Q)
}

func TestRoot_InvalidConfig(t *testing.T) {
	e := newEndpoint(t, respondWith(http.StatusOK, `{"translatedText":"never"}`))

	_, err := run(t, "--url", e.URL, "--target", "auto", "hello")

	require.Error(t, err)
	require.Contains(t, err.Error(), "target language")
	require.EqualValues(t, 0, e.calls.Load())
}

func TestRoot_ConnectionError(t *testing.T) {
	e := newEndpoint(t, respondWith(http.StatusOK, ""))
	url := e.URL
	e.Close()

	out, err := run(t, "--url", url, "--timeout", "1s", "hello")

	var connErr *translator.ConnectionError
	require.True(t, errors.As(err, &connErr))
	require.Empty(t, out)
}

func TestRoot_ParseError(t *testing.T) {
	e := newEndpoint(t, respondWith(http.StatusOK, `{"result":"X"}`))

	out, err := run(t, "--url", e.URL, "hello")

	var parseErr *translator.ParseError
	require.True(t, errors.As(err, &parseErr))
	require.Empty(t, out)
}

func TestRoot_ListLanguages(t *testing.T) {
	e := newEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/languages" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`[{"code":"en","name":"English","targets":["de","uk"]}]`))
	})

	out, err := run(t, "--list-languages", "--url", e.URL)

	require.NoError(t, err)
	require.Contains(t, out, "CODE")
	require.Contains(t, out, "English")
	require.Contains(t, out, "de,uk")
}

func TestRoot_ListLanguages_Empty(t *testing.T) {
	e := newEndpoint(t, respondWith(http.StatusOK, `[]`))

	out, err := run(t, "--list-languages", "--url", e.URL)

	require.NoError(t, err)
	require.Equal(t, "No languages reported by endpoint.\n", out)
}

func TestRoot_ListLanguages_HTTPError(t *testing.T) {
	e := newEndpoint(t, respondWith(http.StatusNotFound, ""))

	_, err := run(t, "--list-languages", "--url", e.URL)

	var httpErr *translator.HTTPError
	require.True(t, errors.As(err, &httpErr))
	require.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}

func TestRoot_ValidateKeepsOutput(t *testing.T) {
	e := newEndpoint(t, respondWith(http.StatusOK, `{"translatedText":"Це речення точно не англійською мовою написане."}`))

	out, err := run(t, "--url", e.URL, "--validate", "Bonjour tout le monde")

	require.NoError(t, err)
	require.Equal(t, "Це речення точно не англійською мовою написане.\n", out)
}

func TestRoot_CommandLikeTextIsTranslated(t *testing.T) {
	for _, word := range []string{"help", "completion", "languages", "version"} {
		t.Run(word, func(t *testing.T) {
			e := newEndpoint(t, respondWith(http.StatusOK, `{"translatedText":"translated"}`))

			out, err := run(t, "--url", e.URL, word)

			require.NoError(t, err)
			require.Equal(t, "translated\n", out)
			require.EqualValues(t, 1, e.calls.Load())

			var body translator.TranslateRequest
			require.NoError(t, json.Unmarshal(e.lastBody(), &body))
			require.Equal(t, word, body.Q)
		})
	}
}

func TestExecute(t *testing.T) {
	ok := newEndpoint(t, respondWith(http.StatusOK, `{"translatedText":"X"}`))
	notFound := newEndpoint(t, respondWith(http.StatusNotFound, `{"error":"no such route"}`))
	badJSON := newEndpoint(t, respondWith(http.StatusOK, `not json`))
	closed := newEndpoint(t, respondWith(http.StatusOK, ""))
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name         string
		args         []string
		wantCode     int
		wantStdout   string
		wantStderr   string
		stderrPrefix bool
	}{
		{
			name:       "success",
			args:       []string{"--url", ok.URL, "hola"},
			wantCode:   0,
			wantStdout: "X\n",
			wantStderr: "",
		},
		{
			name:       "missing text",
			args:       []string{"--url", ok.URL},
			wantCode:   1,
			wantStdout: "",
			wantStderr: "Error: missing text to translate\n",
		},
		{
			name:       "status error reported once on stdout",
			args:       []string{"--url", notFound.URL, "hola"},
			wantCode:   1,
			wantStdout: "Error: 404\n",
			wantStderr: "",
		},
		{
			name:         "refused connection",
			args:         []string{"--url", closedURL, "--timeout", "1s", "hola"},
			wantCode:     1,
			wantStdout:   "",
			wantStderr:   "Error: request to " + closedURL + "/translate failed",
			stderrPrefix: true,
		},
		{
			name:         "bad json",
			args:         []string{"--url", badJSON.URL, "hola"},
			wantCode:     1,
			wantStdout:   "",
			wantStderr:   "Error: failed to decode response",
			stderrPrefix: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			code := execute(tt.args, &stdout, &stderr)

			require.Equal(t, tt.wantCode, code)
			require.Equal(t, tt.wantStdout, stdout.String())
			if tt.stderrPrefix {
				require.True(t, strings.HasPrefix(stderr.String(), tt.wantStderr), "stderr: %q", stderr.String())
				require.Equal(t, 1, strings.Count(stderr.String(), "Error:"))
			} else {
				require.Equal(t, tt.wantStderr, stderr.String())
			}
		})
	}
}

func TestRoot_EndpointLanguageCode(t *testing.T) {
	e := newEndpoint(t, respondWith(http.StatusOK, `{"translatedText":"早安"}`))

	out, err := run(t, "--url", e.URL, "--target", "zt", "Good morning")

	require.NoError(t, err)
	require.Equal(t, "早安\n", out)

	var body translator.TranslateRequest
	require.NoError(t, json.Unmarshal(e.lastBody(), &body))
	require.Equal(t, "zt", body.Target)
}
