package manifest

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/spritepack/pkg/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestParse(t *testing.T) {
	m, err := Parse(`
name = "icons"
class_prefix = "icon-"
padding = 2
globs = ["icons/*.png"]
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Name != "icons" || m.ClassPrefix != "icon-" || m.Padding != 2 {
		t.Errorf("parsed %+v", m)
	}
	if m.Output != "." {
		t.Errorf("Output default = %q, want .", m.Output)
	}
	if m.URL != "icons.png" {
		t.Errorf("URL default = %q, want icons.png", m.URL)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"Syntax", `name = `},
		{"UnknownKey", "name = \"a\"\npading = 2\nimages = [\"a.png\"]"},
		{"MissingName", `images = ["a.png"]`},
		{"NameWithSlash", "name = \"a/b\"\nimages = [\"a.png\"]"},
		{"NegativePadding", "name = \"a\"\npadding = -1\nimages = [\"a.png\"]"},
		{"HugePadding", "name = \"a\"\npadding = 1000\nimages = [\"a.png\"]"},
		{"BadPrefix", "name = \"a\"\nclass_prefix = \"9\"\nimages = [\"a.png\"]"},
		{"BadURL", "name = \"a\"\nurl = \"ftp://host/a.png\"\nimages = [\"a.png\"]"},
		{"NoImages", `name = "a"`},
		{"AbsoluteImage", "name = \"a\"\nimages = [\"/etc/passwd\"]"},
		{"TraversalGlob", "name = \"a\"\nglobs = [\"../*.png\"]"},
		{"MalformedGlob", "name = \"a\"\nglobs = [\"[\"]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidManifest) {
				t.Errorf("code = %v, want %v (%v)", errors.GetCode(err), errors.ErrCodeInvalidManifest, err)
			}
		})
	}
}

func TestLoadAndResolve(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "logo.png"), "x")
	writeFile(t, filepath.Join(dir, "icons", "b.png"), "x")
	writeFile(t, filepath.Join(dir, "icons", "a.png"), "x")
	writeFile(t, filepath.Join(dir, "icons", "notes.txt"), "x")
	writeFile(t, filepath.Join(dir, FileName), `
name = "site"
output = "dist"
images = ["icons/b.png", "logo.png"]
globs = ["icons/*"]
`)

	m, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Dir() != dir {
		t.Errorf("Dir = %q, want %q", m.Dir(), dir)
	}

	paths, err := m.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{
		filepath.Join(dir, "icons", "b.png"),
		filepath.Join(dir, "logo.png"),
		filepath.Join(dir, "icons", "a.png"),
	}
	if !slices.Equal(paths, want) {
		t.Errorf("Resolve =\n%v\nwant\n%v", paths, want)
	}

	if got, want := m.OutputPath(".css"), filepath.Join(dir, "dist", "site.css"); got != want {
		t.Errorf("OutputPath = %q, want %q", got, want)
	}
}

func TestResolveErrors(t *testing.T) {
	dir := t.TempDir()

	m, err := Parse("name = \"a\"\nimages = [\"missing.png\"]")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m.SetDir(dir)
	if _, err := m.Resolve(); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing image: code = %v", errors.GetCode(err))
	}

	m, err = Parse("name = \"a\"\nglobs = [\"*.png\"]")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m.SetDir(dir)
	if _, err := m.Resolve(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty glob: code = %v", errors.GetCode(err))
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}
