package parser

import "testing"

func TestClassifyLinesSkipsBlankLines(t *testing.T) {
	src := "innovate assets\n\n   \nstreamline assets\n"
	lines, errs := ClassifyLines(src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 logical lines, got %d", len(lines))
	}
	if lines[0].Number != 1 || lines[1].Number != 4 {
		t.Fatalf("unexpected line numbers: %d, %d", lines[0].Number, lines[1].Number)
	}
}

func TestClassifyLinesLongestMatch(t *testing.T) {
	lines, errs := ClassifyLines("paradigm shift assets")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	toks := lines[0].Tokens
	if len(toks) != 2 {
		t.Fatalf("expected 2 tokens, got %d: %+v", len(toks), toks)
	}
	if toks[0].Kind != TokOpcode || toks[0].Opcode != OpRandomize {
		t.Fatalf("expected 'paradigm shift' to match as one opcode token, got %+v", toks[0])
	}
	if toks[1].Kind != TokRegister || toks[1].Register != RegAssets {
		t.Fatalf("expected assets register, got %+v", toks[1])
	}
}

func TestClassifyLinesCaseAndWhitespaceInsensitive(t *testing.T) {
	lines, errs := ClassifyLines("ALIGN   Assets  with   HR")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	toks := lines[0].Tokens
	if len(toks) != 4 {
		t.Fatalf("expected 4 tokens, got %d: %+v", len(toks), toks)
	}
	if toks[0].Opcode != OpAlign || toks[1].Register != RegAssets ||
		toks[2].Keyword != KwWith || toks[3].Constant != 0 {
		t.Fatalf("unexpected tokens: %+v", toks)
	}
}

func TestClassifyLinesMultiWordRegister(t *testing.T) {
	lines, errs := ClassifyLines("backburner key performance indicators")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	toks := lines[0].Tokens
	if len(toks) != 2 || toks[1].Register != RegKeyPerformanceIndicators {
		t.Fatalf("expected key performance indicators register, got %+v", toks)
	}
}

func TestClassifyLinesFreeTextForLabel(t *testing.T) {
	lines, errs := ClassifyLines("moving forward, loop start")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	toks := lines[0].Tokens
	if len(toks) != 3 {
		t.Fatalf("expected opcode, comma, text; got %+v", toks)
	}
	if toks[2].Kind != TokText || toks[2].Text != "loop start" {
		t.Fatalf("expected merged free text 'loop start', got %+v", toks[2])
	}
}

func TestClassifyLinesRejectsUnrecognizedCharacter(t *testing.T) {
	_, errs := ClassifyLines("innovate assets #")
	if !errs.HasErrors() {
		t.Fatal("expected a lexical error for '#'")
	}
	if errs.First().Kind != ErrorLexical {
		t.Fatalf("expected ErrorLexical, got %v", errs.First().Kind)
	}
}

func TestClassifyLinesAmpersandConstant(t *testing.T) {
	lines, errs := ClassifyLines("align assets with R&D")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	toks := lines[0].Tokens
	if toks[3].Kind != TokConstant || toks[3].Constant != 6 {
		t.Fatalf("expected R&D to be constant 6, got %+v", toks[3])
	}
}
