package combine

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reposynth/pkg/ignore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var rule = strings.Repeat("-", 100)

// writeTree creates files under root; a nil content creates a directory.
func writeTree(t *testing.T, root string, files map[string][]byte) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if content == nil {
			require.NoError(t, os.MkdirAll(path, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, content, 0o644))
	}
}

func options(root string, p ignore.Policy, allow, deny []string) Options {
	return Options{
		Root:   root,
		Policy: p,
		Rules:  ignore.NewExtensionRules(allow, deny, p),
	}
}

func TestRunIgnoresFoldersAndMarksEmptyFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]byte{
		"a.txt":              []byte("hello"),
		"b.log":              []byte(""),
		"node_modules/x.txt": []byte("never"),
	})

	var out bytes.Buffer
	stats, err := Run(options(root, ignore.NewPolicy([]string{"node_modules"}, nil, nil), nil, nil), &out, zap.NewNop())
	require.NoError(t, err)

	want := "a.txt:\nhello\n" + "\n" + rule + "\n\n" + "b.log: (EMPTY FILE)\n"
	assert.Equal(t, want, out.String())
	assert.Equal(t, Stats{Written: 2}, stats)
}

func TestRunConflictingExtensionsFailsBeforeOutput(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]byte{"main.rs": []byte("fn main() {}")})
	outPath := filepath.Join(root, "out.txt")

	opts := options(root, ignore.Policy{}, []string{"rs"}, []string{"rs"})
	opts.Output = outPath

	var out bytes.Buffer
	_, err := Run(opts, &out, nil)
	require.ErrorIs(t, err, ignore.ErrExtensionConflict)
	assert.Empty(t, out.String())
	assert.NoFileExists(t, outPath)
}

func TestRunDoesNotReadItsOwnOutput(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]byte{
		"a.txt":   []byte("hello"),
		"out.txt": []byte("OLD CONTENT"),
	})
	outPath := filepath.Join(root, "out.txt")

	opts := options(root, ignore.Policy{}, nil, nil)
	opts.Output = outPath

	var stdout bytes.Buffer
	stats, err := Run(opts, &stdout, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Written)
	assert.Empty(t, stdout.String(), "only the file sink is written")

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "a.txt:\nhello\n", string(got))
	assert.NotContains(t, string(got), "OLD CONTENT")
}

func TestRunAllowListTakesPrecedence(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]byte{
		"README":  []byte("docs"),
		"main.go": []byte("package main"),
		"main.rs": []byte("fn main() {}"),
	})

	p := ignore.NewPolicy(nil, nil, []string{"go"})
	var out bytes.Buffer
	_, err := Run(options(root, p, []string{"rs"}, []string{"md"}), &out, nil)
	require.NoError(t, err)

	want := "README:\ndocs\n" + "\n" + rule + "\n\n" + "main.rs:\nfn main() {}\n"
	assert.Equal(t, want, out.String())
}

func TestRunDenyListAndPolicyExtensions(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]byte{
		"a.md":    []byte("markdown"),
		"b.png":   []byte("not really a png"),
		"c.go":    []byte("package c"),
		"LICENSE": []byte("MIT"),
	})

	p := ignore.NewPolicy(nil, nil, []string{"png"})
	var out bytes.Buffer
	_, err := Run(options(root, p, nil, []string{"md"}), &out, nil)
	require.NoError(t, err)

	want := "LICENSE:\nMIT\n" + "\n" + rule + "\n\n" + "c.go:\npackage c\n"
	assert.Equal(t, want, out.String())
}

func TestRunIgnoredFileNamesOnlyApplyToFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]byte{
		"notes":         []byte("top"),
		"keep/notes":    []byte("nested"),
		"notes.d/a.txt": []byte("inside"),
	})

	p := ignore.NewPolicy(nil, []string{"notes", "notes.d"}, nil)
	var out bytes.Buffer
	_, err := Run(options(root, p, nil, nil), &out, nil)
	require.NoError(t, err)

	want := filepath.Join("notes.d", "a.txt") + ":\ninside\n"
	assert.Equal(t, want, out.String())
}

func TestRunSkipsNonText(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]byte{
		"a.bin": {0xff, 0xfe, 0x00, 0x01},
		"b.txt": []byte("  \n text with padding \n\n"),
		"c.txt": []byte(" \t\n "),
	})

	var out bytes.Buffer
	stats, err := Run(options(root, ignore.Policy{}, nil, nil), &out, nil)
	require.NoError(t, err)

	want := "b.txt:\ntext with padding\n" + "\n" + rule + "\n\n" + "c.txt: (EMPTY FILE)\n"
	assert.Equal(t, want, out.String())
	assert.Equal(t, Stats{Written: 2, Skipped: 1}, stats)
}

func TestRunNestedPathsUsePlatformSeparator(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]byte{
		"src/lib/util.go": []byte("package lib"),
		"target/debug/x":  []byte("artifact"),
	})

	p := ignore.NewPolicy([]string{"target"}, nil, nil)
	var out bytes.Buffer
	_, err := Run(options(root, p, nil, nil), &out, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("src", "lib", "util.go")+":\npackage lib\n", out.String())
}

func TestRunIgnoredFolderAboveRootExcludesEverything(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "build", "project")
	writeTree(t, root, map[string][]byte{"a.txt": []byte("hello")})

	var out bytes.Buffer
	stats, err := Run(options(root, ignore.NewPolicy([]string{"build"}, nil, nil), nil, nil), &out, nil)
	require.NoError(t, err)
	assert.Empty(t, out.String())
	assert.Zero(t, stats.Written)
}

func TestRunOutputFileOpenFailure(t *testing.T) {
	root := t.TempDir()
	opts := options(root, ignore.Policy{}, nil, nil)
	opts.Output = filepath.Join(root, "missing", "out.txt")

	_, err := Run(opts, &bytes.Buffer{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open output file")
}

func TestWalkSkipsBrokenSymlinks(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]byte{"a.txt": []byte("hello")})
	if err := os.Symlink(filepath.Join(root, "nowhere"), filepath.Join(root, "dangling")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	var seen []string
	err := Walk(root, ignore.Chain(ignore.Policy{}, ignore.ExtensionRules{}), zap.NewNop(), func(e ignore.Entry) error {
		seen = append(seen, filepath.Base(e.Path))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, seen)
}

func TestRunFollowsSymlinkedRoot(t *testing.T) {
	base := t.TempDir()
	writeTree(t, base, map[string][]byte{"real/a.txt": []byte("hello")})
	link := filepath.Join(base, "link")
	if err := os.Symlink(filepath.Join(base, "real"), link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	// Folder names are matched against the path as given, not the link target.
	p := ignore.NewPolicy([]string{"real"}, nil, nil)
	var out bytes.Buffer
	stats, err := Run(options(link, p, nil, nil), &out, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "a.txt:\nhello\n", out.String())
	assert.Equal(t, Stats{Written: 1}, stats)
}

func TestRunFileRootUsesBaseName(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]byte{"a.txt": []byte("hello")})

	var out bytes.Buffer
	stats, err := Run(options(filepath.Join(root, "a.txt"), ignore.Policy{}, nil, nil), &out, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "a.txt:\nhello\n", out.String())
	assert.Equal(t, Stats{Written: 1}, stats)
}

func TestRunAbortsOnPathOutsideRoot(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeTree(t, root, map[string][]byte{"a.txt": []byte("hello")})
	writeTree(t, outside, map[string][]byte{"b.txt": []byte("stray")})

	orig := walk
	t.Cleanup(func() { walk = orig })
	walk = func(_ string, _ ignore.Filter, _ *zap.Logger, fn func(ignore.Entry) error) error {
		for _, path := range []string{filepath.Join(outside, "b.txt"), filepath.Join(root, "a.txt")} {
			if err := fn(ignore.Entry{Path: path}); err != nil {
				return err
			}
		}
		return nil
	}

	var out bytes.Buffer
	stats, err := Run(options(root, ignore.Policy{}, nil, nil), &out, zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRelativePath)
	assert.Empty(t, out.String())
	assert.Equal(t, Stats{}, stats)
}

func TestWalkOrderIsStable(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]byte{
		"b/z.txt": []byte("z"),
		"a.txt":   []byte("a"),
		"b/a.txt": []byte("a"),
		"c.txt":   []byte("c"),
	})

	collect := func() []string {
		var seen []string
		err := Walk(root, func(ignore.Entry) bool { return true }, zap.NewNop(), func(e ignore.Entry) error {
			rel, err := RelativePath(root, e.Path)
			require.NoError(t, err)
			seen = append(seen, filepath.ToSlash(rel))
			return nil
		})
		require.NoError(t, err)
		return seen
	}

	first := collect()
	assert.Equal(t, []string{"a.txt", "b/a.txt", "b/z.txt", "c.txt"}, first)
	assert.Equal(t, first, collect())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "a.txt:\nhello", Format(true, "a.txt", "hello"))
	assert.Equal(t, "a.txt: (EMPTY FILE)", Format(true, "a.txt", ""))
	assert.Equal(t, "\n"+rule+"\n\nb.txt:\nbye", Format(false, "b.txt", "bye"))
	assert.Equal(t, "\n"+rule+"\n\nb.txt: (EMPTY FILE)", Format(false, "b.txt", ""))

	block := Format(false, "x", "y")
	assert.Equal(t, 1, strings.Count(block, rule))
	assert.True(t, strings.HasPrefix(block, "\n"+rule+"\n\n"))
}

func TestRelativePath(t *testing.T) {
	rel, err := RelativePath("root", filepath.Join("root", "src", "main.go"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("src", "main.go"), rel)

	rel, err = RelativePath(".", "main.go")
	require.NoError(t, err)
	assert.Equal(t, "main.go", rel)

	rel, err = RelativePath(filepath.Join("root", "main.go"), filepath.Join("root", "main.go"))
	require.NoError(t, err)
	assert.Equal(t, "main.go", rel)

	_, err = RelativePath("root", filepath.Join("other", "main.go"))
	assert.ErrorIs(t, err, ErrRelativePath)
}

func TestSink(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		var out bytes.Buffer
		sink, err := OpenSink("", &out)
		require.NoError(t, err)
		assert.Equal(t, "stdout", sink.Name())

		require.NoError(t, sink.WriteBlock("first"))
		require.NoError(t, sink.WriteBlock("second"))
		require.NoError(t, sink.Close())
		assert.Equal(t, "first\nsecond\n", out.String())
	})

	t.Run("file is truncated", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		require.NoError(t, os.WriteFile(path, []byte("a much longer previous content"), 0o644))

		var stdout bytes.Buffer
		sink, err := OpenSink(path, &stdout)
		require.NoError(t, err)
		require.NoError(t, sink.WriteBlock("new"))
		require.NoError(t, sink.Close())

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new\n", string(got))
		assert.Empty(t, stdout.String())
	})
}

func TestGenerateTree(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]byte{
		"a.txt":             []byte("a"),
		"src/main.go":       []byte("package main"),
		"src/util/x.go":     []byte("package util"),
		"node_modules/y.js": []byte("y"),
		"blob.dat":          {0xff, 0x00},
		"empty":             nil,
	})

	p := ignore.NewPolicy([]string{"node_modules"}, nil, nil)
	tree, err := GenerateTree(root, ignore.Chain(p, ignore.NewExtensionRules(nil, nil, p)), zap.NewNop())
	require.NoError(t, err)

	want := filepath.Clean(root) + "/\n" +
		"├── src/\n" +
		"│   ├── util/\n" +
		"│   │   └── x.go\n" +
		"│   └── main.go\n" +
		"└── a.txt\n"
	assert.Equal(t, want, tree)
}
