package smerror

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"testing"
)

func TestStableCodes(t *testing.T) {
	// these values are part of the ABI contract and must never change
	codes := map[Code]uint32{
		CodePanic:              1,
		CodeMismatchKSizes:     101,
		CodeMismatchNum:        107,
		CodeInvalidDNA:         1101,
		CodeInvalidHashFunc:    1104,
		CodeHLLPrecisionBounds: 1301,
		CodeIo:                 100001,
		CodeSerde:              100004,
	}
	for code, value := range codes {
		if uint32(code) != value {
			t.Fatalf("code %d has drifted from its pinned value %d", code, value)
		}
	}
}

func TestCodeOf(t *testing.T) {
	if CodeOf(nil) != CodeNoError {
		t.Fatal("nil error should map to NO_ERROR")
	}
	if CodeOf(ErrMismatchSeed) != CodeMismatchSeed {
		t.Fatal("typed errors should report their own code")
	}
	if CodeOf(fmt.Errorf("wrapped: %w", ErrMismatchScaled)) != CodeMismatchScaled {
		t.Fatal("wrapped typed errors should report their own code")
	}

	_, pathErr := os.Open("/definitely/not/a/file")
	if CodeOf(pathErr) != CodeIo {
		t.Fatalf("file errors should map to IO, got %d", CodeOf(pathErr))
	}

	_, numErr := strconv.ParseUint("not-a-number", 10, 64)
	if CodeOf(numErr) != CodeParseInt {
		t.Fatalf("strconv errors should map to PARSE_INT, got %d", CodeOf(numErr))
	}

	var decoded struct{}
	jsonErr := json.Unmarshal([]byte("{"), &decoded)
	if CodeOf(jsonErr) != CodeSerde {
		t.Fatalf("json errors should map to SERDE, got %d", CodeOf(jsonErr))
	}

	if CodeOf(fmt.Errorf("some other failure")) != CodeUnknown {
		t.Fatal("unclassified errors should map to UNKNOWN")
	}
}

func TestInvalidDNAMessage(t *testing.T) {
	err := InvalidDNA("ACGTN")
	if err.Code != CodeInvalidDNA {
		t.Fatalf("unexpected code: %d", err.Code)
	}
	if err.Error() != "invalid DNA character in input k-mer: ACGTN" {
		t.Fatalf("unexpected message: %v", err.Error())
	}
}
