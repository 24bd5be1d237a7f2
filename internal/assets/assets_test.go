package assets

// Notes:
// - Dir escape tests create a symlink; they skip where symlinks cannot be
//   created (Windows without developer mode).
// - Overlay is tested with fstest.MapFS sources so each fallback path is
//   explicit.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func writeAsset(t *testing.T, dir string, kind Kind, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(kind.file(name)))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// ---------------------------------------------------------------------------
// TestBuiltin - Compiled-in frame assets
// ---------------------------------------------------------------------------

func TestBuiltin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		name string
		want string
	}{
		{Style, CodeFrameStyle, ".code-frame"},
		{Script, CopyButtonScript, "clipboard"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			t.Parallel()

			got, err := Builtin().Load(tt.kind, tt.name)
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("Load(%s, %q) should contain %q", tt.kind, tt.name, tt.want)
			}
		})
	}
}

func TestFS_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		kind    Kind
		asset   string
		wantErr error
	}{
		{"missing style", Style, "nope", ErrNotFound},
		{"missing script", Script, "nope", ErrNotFound},
		{"style name as script", Script, CodeFrameStyle, ErrNotFound},
		{"empty", Style, "", ErrInvalidAssetName},
		{"traversal", Style, "../code-frame", ErrInvalidAssetName},
		{"separator", Script, "scripts/copy-button", ErrInvalidAssetName},
		{"backslash", Style, `styles\code-frame`, ErrInvalidAssetName},
		{"extension", Style, "code-frame.css", ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Builtin().Load(tt.kind, tt.asset)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Load(%s, %q) error = %v, want %v", tt.kind, tt.asset, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDir - Override directory
// ---------------------------------------------------------------------------

func TestDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, Style, "code-frame", ".custom{}")

	d, err := NewDir(dir)
	if err != nil {
		t.Fatalf("NewDir() unexpected error: %v", err)
	}
	if !filepath.IsAbs(d.Path()) {
		t.Errorf("Path() = %q, want absolute", d.Path())
	}

	got, err := d.Load(Style, "code-frame")
	if err != nil || got != ".custom{}" {
		t.Errorf("Load() = %q, %v", got, err)
	}
	if _, err := d.Load(Script, "copy-button"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing script error = %v, want ErrNotFound", err)
	}
}

func TestNewDir_Errors(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	for name, path := range map[string]string{
		"empty":        "",
		"missing":      filepath.Join(t.TempDir(), "nope"),
		"regular file": file,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewDir(path); !errors.Is(err, ErrInvalidDir) {
				t.Errorf("NewDir(%q) error = %v, want ErrInvalidDir", path, err)
			}
		})
	}
}

func TestDir_SymlinkEscape(t *testing.T) {
	t.Parallel()

	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.css")
	if err := os.WriteFile(secret, []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "styles"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(secret, filepath.Join(dir, "styles", "code-frame.css")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	d, err := NewDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	got, err := d.Load(Style, "code-frame")
	if err == nil || got == "secret" {
		t.Fatalf("Load() = %q, %v; want escape refused", got, err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("escape must not read as missing, or the overlay would mask it: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestOverlay - Custom-first fallback
// ---------------------------------------------------------------------------

func TestOverlay(t *testing.T) {
	t.Parallel()

	base := NewFS(fstest.MapFS{
		"styles/code-frame.css":  {Data: []byte("base-css")},
		"scripts/copy-button.js": {Data: []byte("base-js")},
	})
	top := NewFS(fstest.MapFS{
		"styles/code-frame.css": {Data: []byte("top-css")},
	})

	tests := []struct {
		name    string
		overlay Overlay
		kind    Kind
		asset   string
		want    string
		wantErr error
	}{
		{"top wins", Overlay{Top: top, Base: base}, Style, "code-frame", "top-css", nil},
		{"falls back when missing", Overlay{Top: top, Base: base}, Script, "copy-button", "base-js", nil},
		{"no top", Overlay{Base: base}, Style, "code-frame", "base-css", nil},
		{"missing everywhere", Overlay{Top: top, Base: base}, Script, "other", "", ErrNotFound},
		{"invalid name not masked", Overlay{Top: top, Base: base}, Style, "a.b", "", ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.overlay.Load(tt.kind, tt.asset)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("Load() = %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}

func TestNewResolver(t *testing.T) {
	t.Parallel()

	t.Run("empty dir is builtin", func(t *testing.T) {
		t.Parallel()

		l, err := NewResolver("")
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := l.(*FS); !ok {
			t.Errorf("NewResolver(\"\") = %T, want *FS", l)
		}
	})

	t.Run("override one keeps the other", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeAsset(t, dir, Script, CopyButtonScript, "custom()")

		l, err := NewResolver(dir)
		if err != nil {
			t.Fatal(err)
		}
		js, err := l.Load(Script, CopyButtonScript)
		if err != nil || js != "custom()" {
			t.Errorf("script = %q, %v", js, err)
		}
		css, err := l.Load(Style, CodeFrameStyle)
		if err != nil || !strings.Contains(css, ".code-frame") {
			t.Errorf("style should come from builtin, got %q, %v", css, err)
		}
	})

	t.Run("invalid dir", func(t *testing.T) {
		t.Parallel()

		if _, err := NewResolver(filepath.Join(t.TempDir(), "nope")); !errors.Is(err, ErrInvalidDir) {
			t.Errorf("error = %v, want ErrInvalidDir", err)
		}
	})
}
