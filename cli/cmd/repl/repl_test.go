package repl

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/dollar/log"
	"github.com/ardnew/dollar/tmpl"
)

func fuzzyMatches(strs ...string) fuzzy.Matches {
	matches := make(fuzzy.Matches, len(strs))
	for i, s := range strs {
		matches[i] = fuzzy.Match{Str: s, Index: i}
	}

	return matches
}

func testModel() model {
	c := tmpl.NewBuilder().
		String("item", "Stuff").
		Strings("items", "A", "B").
		Object("object", tmpl.NewBuilder().String("value", "string")).
		Build()

	return newModel(context.Background(), c, NewHistory(""), log.Logger{})
}

func TestModel_Eval(t *testing.T) {
	m := testModel()

	tests := []struct {
		line string
		want string
	}{
		{"$item", "Stuff"},
		{"$for x in items: <$x >", "<A ><B >"},
		{":set flag=true", "flag = true"},
		{"$if flag: on", "on"},
		{`:set greeting=item + "!"`, `greeting = "Stuff!"`},
		{"$greeting", "Stuff!"},
		{":set object.extra=more words", `object.extra = "more words"`},
		{"$object.value $object.extra", "string more words"},
		{":unset flag", "unset flag"},
		{"$if flag: on", ""},
		{":paths", "greeting\nitem\nitems\nobject.extra\nobject.value"},
	}

	for _, tt := range tests {
		res := m.eval(tt.line)
		if res.err != nil {
			t.Fatalf("eval(%q): %v", tt.line, res.err)
		}

		if res.text != tt.want {
			t.Errorf("eval(%q) = %q, want %q", tt.line, res.text, tt.want)
		}
	}
}

func TestModel_EvalCommands(t *testing.T) {
	m := testModel()

	if res := m.eval(":quit"); !res.quit {
		t.Error(":quit did not quit")
	}

	if res := m.eval(":clear"); !res.clear {
		t.Error(":clear did not clear")
	}

	if res := m.eval(":edit"); !res.edit {
		t.Error(":edit did not edit")
	}

	if res := m.eval(":help"); !strings.Contains(res.text, ":set name=value") {
		t.Errorf(":help = %q", res.text)
	}

	if res := m.eval(":ctx"); !strings.Contains(res.text, "item: Stuff") {
		t.Errorf(":ctx = %q", res.text)
	}
}

func TestModel_EvalErrors(t *testing.T) {
	m := testModel()

	tests := []struct {
		line string
		want error
	}{
		{":set", ErrUsage},
		{":set =x", ErrUsage},
		{":unset", ErrUsage},
		{":bogus", ErrUnknown},
		{"$missing", tmpl.ErrMissingVariable},
		{"$if x y", tmpl.ErrParse},
	}

	for _, tt := range tests {
		if res := m.eval(tt.line); !errors.Is(res.err, tt.want) {
			t.Errorf("eval(%q) error = %v, want %v", tt.line, res.err, tt.want)
		}
	}
}

func TestModel_Completion(t *testing.T) {
	m := testModel()

	m.input.SetValue("say $ite")
	m.input.SetCursor(len("say $ite"))
	refreshMatches(&m)

	if len(m.matches) == 0 || m.matches[0].Str != "item" {
		t.Fatalf("matches = %v, want item first", m.matches)
	}

	m.matches = fuzzyMatches("items")
	m = m.cycle(1)

	if got := m.input.Value(); got != "say $items" {
		t.Errorf("input = %q, want %q", got, "say $items")
	}

	m.input.SetValue("$object.")
	m.input.SetCursor(len("$object."))
	refreshMatches(&m)

	if len(m.matches) != 1 || m.matches[0].Str != "value" {
		t.Errorf("member matches = %v, want [value]", m.matches)
	}

	m.input.SetValue(":he")
	m.input.SetCursor(3)
	refreshMatches(&m)

	if len(m.matches) == 0 || m.matches[0].Str != "help" {
		t.Errorf("command matches = %v, want help first", m.matches)
	}
}

func TestModel_HistoryMove(t *testing.T) {
	m := testModel()

	for _, line := range []string{"$a", "$b"} {
		if err := m.history.Add(line); err != nil {
			t.Fatal(err)
		}
	}

	m.historyIdx = m.history.Len()

	m = m.historyMove(-1)
	if m.input.Value() != "$b" {
		t.Errorf("up = %q, want $b", m.input.Value())
	}

	m = m.historyMove(-1)
	m = m.historyMove(-1)

	if m.input.Value() != "$a" {
		t.Errorf("up at oldest = %q, want $a", m.input.Value())
	}

	m = m.historyMove(1)
	m = m.historyMove(1)

	if m.input.Value() != "" || m.historyIdx != m.history.Len() {
		t.Errorf("down past newest = %q at %d", m.input.Value(), m.historyIdx)
	}
}
