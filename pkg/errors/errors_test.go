package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"
	"io/fs"
	"testing"
)

// pngFailure returns the error image/png gives for a truncated file.
func pngFailure(t *testing.T) error {
	t.Helper()
	_, err := png.Decode(bytes.NewReader([]byte("\x89PNG\r\n\x1a\n")))
	if err == nil {
		t.Fatal("truncated PNG decoded")
	}
	return err
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "Oversized",
			err:  New(ErrCodeInvalidInput, "image %q is %dx%d", "logo", 20000, 10),
			want: `INVALID_INPUT: image "logo" is 20000x10`,
		},
		{
			name: "ManifestCause",
			err:  Wrap(ErrCodeInvalidManifest, io.ErrUnexpectedEOF, "parse sheet.json"),
			want: "INVALID_MANIFEST: parse sheet.json: unexpected EOF",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapDecodeFailure(t *testing.T) {
	cause := pngFailure(t)
	err := Wrap(ErrCodeDecode, cause, "decode %s header", "icons/home.png")

	if err.Code != ErrCodeDecode {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeDecode)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Errorf("cause lost in chain: %v", err)
	}
	if got := UserMessage(err); got != "decode icons/home.png header" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestGetCodeThroughChains(t *testing.T) {
	manifestErr := json.Unmarshal([]byte(`{"sprites":`), &struct{}{})
	if manifestErr == nil {
		t.Fatal("truncated manifest parsed")
	}

	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"Decode", Wrap(ErrCodeDecode, pngFailure(t), "decode logo.png"), ErrCodeDecode},
		{"Encode", Wrap(ErrCodeEncode, io.ErrShortWrite, "encode sheet.png"), ErrCodeEncode},
		{"Manifest", Wrap(ErrCodeInvalidManifest, manifestErr, "parse sprites.json"), ErrCodeInvalidManifest},
		{"MissingFile", fmt.Errorf("load: %w", New(ErrCodeFileNotFound, "image not found: a.png")), ErrCodeFileNotFound},
		{"OuterWins", Wrap(ErrCodeEncode, New(ErrCodeInvalidInput, "sheet too large"), "write css"), ErrCodeEncode},
		{"OpenError", fmt.Errorf("open a.png: %w", fs.ErrPermission), ""},
		{"Nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
			if tt.want != "" && !Is(tt.err, tt.want) {
				t.Errorf("Is(%q) = false", tt.want)
			}
		})
	}
}

func TestIsEmptyCode(t *testing.T) {
	// An uncoded error never matches, not even the empty code.
	if Is(fmt.Errorf("open a.png: %w", fs.ErrNotExist), "") {
		t.Error("Is(plain, \"\") = true")
	}
	if Is(nil, ErrCodeDecode) {
		t.Error("Is(nil, DECODE_FAILED) = true")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"Coded", New(ErrCodeInvalidPath, "output %q escapes the work dir", "../x"), `output "../x" escapes the work dir`},
		{"WrappedInFmt", fmt.Errorf("draw: %w", New(ErrCodeInvalidInput, "sheet is empty")), "sheet is empty"},
		{"Plain", fmt.Errorf("open a.png: %w", fs.ErrPermission), "open a.png: permission denied"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"BadPadding", New(ErrCodeInvalidInput, "padding -1"), true},
		{"BadManifest", Wrap(ErrCodeInvalidManifest, io.ErrUnexpectedEOF, "parse"), true},
		{"BadOutput", New(ErrCodeInvalidPath, "../x"), true},
		{"BadFormat", New(ErrCodeInvalidFormat, "format gif"), true},
		{"CorruptImage", Wrap(ErrCodeDecode, pngFailure(t), "decode"), false},
		{"Unwritable", Wrap(ErrCodeEncode, io.ErrShortWrite, "encode"), false},
		{"Plain", fs.ErrPermission, false},
		{"Nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInvalid(tt.err); got != tt.want {
				t.Errorf("IsInvalid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassOf(t *testing.T) {
	tests := []struct {
		err  error
		want Class
	}{
		{nil, ClassNone},
		{fs.ErrPermission, ClassNone},
		{New(ErrCodeInvalidPath, "x"), ClassInput},
		{Wrap(ErrCodeDecode, pngFailure(t), "x"), ClassInput},
		{Wrap(ErrCodeFileNotFound, fs.ErrNotExist, "x"), ClassMissing},
		{New(ErrCodeNotFound, "sprite abc"), ClassMissing},
		{New(ErrCodeUnsupported, "x"), ClassUnsupported},
		{Wrap(ErrCodeEncode, io.ErrShortWrite, "x"), ClassInternal},
		{New(Code("SOMETHING_NEW"), "x"), ClassInternal},
	}
	for _, tt := range tests {
		if got := ClassOf(tt.err); got != tt.want {
			t.Errorf("ClassOf(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
