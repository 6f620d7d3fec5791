package assistant

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/medstock/medstock/internal/inventory"
	"github.com/medstock/medstock/internal/oracle"
)

func TestResolveEmptyCandidatesSkipsOracle(t *testing.T) {
	completer := &stubCompleter{reply: "7"}
	resolver := NewResolver(completer, oracle.DefaultTemplates().Resolution)

	id, err := resolver.Resolve(context.Background(), "how much aspirin?", nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if id != NotFoundID {
		t.Fatalf("Resolve() = %d, want 0", id)
	}
	if len(completer.calls) != 0 {
		t.Fatalf("oracle calls = %d, want 0", len(completer.calls))
	}
}

func TestResolveSendsRenderedCandidates(t *testing.T) {
	completer := &stubCompleter{reply: "\"2\"\n"}
	resolver := NewResolver(completer, oracle.DefaultTemplates().Resolution)

	id, err := resolver.Resolve(context.Background(), "How much Benadril do we have in stock?", []inventory.Candidate{
		{Name: "Acetaminophen (Tylenol)", ID: 1},
		{Name: "Diphenhydramine (Benadryl)", ID: 2},
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if id != 2 {
		t.Fatalf("Resolve() = %d, want 2", id)
	}
	call := completer.calls[0]
	if call.template != oracle.ResolutionTemplate {
		t.Fatalf("template = %q", call.template)
	}
	if got := call.vars[oracle.VarContext]; got != "Acetaminophen (Tylenol):1, Diphenhydramine (Benadryl):2" {
		t.Fatalf("context = %q", got)
	}
	if got := call.vars[oracle.VarInput]; got != "How much Benadril do we have in stock?" {
		t.Fatalf("input = %q", got)
	}
}

func TestResolveMalformedOutput(t *testing.T) {
	resolver := NewResolver(&stubCompleter{reply: "abc"}, oracle.DefaultTemplates().Resolution)

	_, err := resolver.Resolve(context.Background(), "q", []inventory.Candidate{{Name: "Aspirin", ID: 1}})
	if !errors.Is(err, ErrMalformedResolution) {
		t.Fatalf("error = %v", err)
	}
	var malformed *MalformedResolutionError
	if !errors.As(err, &malformed) || malformed.Raw != "abc" {
		t.Fatalf("error = %#v", err)
	}
}

func TestResolveBlankOutputIsMalformed(t *testing.T) {
	resolver := NewResolver(&stubCompleter{reply: "  \n"}, oracle.DefaultTemplates().Resolution)

	_, err := resolver.Resolve(context.Background(), "q", []inventory.Candidate{{Name: "Aspirin", ID: 1}})
	if !errors.Is(err, ErrMalformedResolution) {
		t.Fatalf("error = %v", err)
	}
	if errors.Is(err, ErrOracleFailed) {
		t.Fatal("blank output must not read as an oracle failure")
	}
}

func TestResolveBlankOllamaResponseIsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":"  \n","done":true}`))
	}))
	defer server.Close()

	gen, err := oracle.NewOllamaGenerator(oracle.Config{BaseURL: server.URL, Model: "qwen2.5:3b", Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewOllamaGenerator() error = %v", err)
	}
	completer, err := oracle.NewTemplateCompleter(gen, nil)
	if err != nil {
		t.Fatalf("NewTemplateCompleter() error = %v", err)
	}
	resolver := NewResolver(completer, oracle.DefaultTemplates().Resolution)

	_, err = resolver.Resolve(context.Background(), "how much aspirin?", []inventory.Candidate{{Name: "Aspirin", ID: 1}})
	var malformed *MalformedResolutionError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v", err)
	}
	if errors.Is(err, ErrOracleFailed) {
		t.Fatal("blank output must not read as an oracle failure")
	}
}

func TestResolveWrapsOracleFailure(t *testing.T) {
	resolver := NewResolver(&stubCompleter{err: errors.New("timeout")}, oracle.DefaultTemplates().Resolution)

	_, err := resolver.Resolve(context.Background(), "q", []inventory.Candidate{{Name: "Aspirin", ID: 1}})
	if !errors.Is(err, ErrOracleFailed) {
		t.Fatalf("error = %v", err)
	}
	if errors.Is(err, ErrMalformedResolution) {
		t.Fatal("transport failure must not read as malformed")
	}
}

func TestParseResolution(t *testing.T) {
	valid := map[string]int64{
		"0":       0,
		"2":       2,
		"  14\n":  14,
		`"2"`:     2,
		`'31'`:    31,
		"\" 5 \"": 5,
	}
	for raw, want := range valid {
		got, err := ParseResolution(raw)
		if err != nil {
			t.Fatalf("ParseResolution(%q) error = %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseResolution(%q) = %d, want %d", raw, got, want)
		}
	}

	for _, raw := range []string{"", "abc", "-3", "2.0", "id: 2", `"2`, "2 3", `""`} {
		if _, err := ParseResolution(raw); !errors.Is(err, ErrMalformedResolution) {
			t.Fatalf("ParseResolution(%q) error = %v", raw, err)
		}
	}
}
