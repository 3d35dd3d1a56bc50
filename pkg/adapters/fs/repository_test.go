package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jot/pkg/adapters/fs"
	"github.com/aretw0/jot/pkg/core"
)

// setupRepo helps create a repository for testing.
// It returns the initialized repository and the notes directory.
func setupRepo(t *testing.T, opts ...func(*fs.Config)) (*fs.Repository, string) {
	t.Helper()

	notesPath := filepath.Join(t.TempDir(), "NotesData")

	cfg := fs.Config{
		Path: notesPath,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	repo := fs.NewRepository(cfg)
	if !cfg.MustExist && !cfg.ReadOnly {
		require.NoError(t, repo.Initialize(context.Background()))
	}
	return repo, notesPath
}

func newNote(title, content string) core.Note {
	return core.Note{Title: title, Content: content, CreatedAt: time.Now()}
}

func collect(t *testing.T, repo *fs.Repository) ([]core.NoteInfo, []error) {
	t.Helper()
	var (
		infos  []core.NoteInfo
		issues []error
	)
	for info, err := range repo.List(context.Background()) {
		if err != nil {
			issues = append(issues, err)
			continue
		}
		infos = append(infos, info)
	}
	return infos, issues
}

func titles(infos []core.NoteInfo) []string {
	out := make([]string, 0, len(infos))
	for _, i := range infos {
		out = append(out, i.Title)
	}
	return out
}

func TestInitialize(t *testing.T) {
	t.Run("Creates Directory if Missing", func(t *testing.T) {
		_, path := setupRepo(t)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("Fails if MustExist and Missing", func(t *testing.T) {
		repo, _ := setupRepo(t, func(c *fs.Config) { c.MustExist = true })

		assert.Error(t, repo.Initialize(context.Background()))
	})

	t.Run("Fails if Path Is a File", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "notes")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		repo := fs.NewRepository(fs.Config{Path: file, MustExist: true})
		assert.Error(t, repo.Initialize(context.Background()))
	})

	t.Run("Respects Cancelled Context", func(t *testing.T) {
		repo := fs.NewRepository(fs.Config{Path: t.TempDir()})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, repo.Initialize(ctx), context.Canceled)
	})
}

func TestCreateRead(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	original := newNote("Groceries", "milk, eggs")
	require.NoError(t, repo.Create(ctx, original))

	_, err := os.Stat(filepath.Join(path, "Groceries.json"))
	require.NoError(t, err, "note should be stored as <title>.json")

	first, err := repo.Read(ctx, "Groceries")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", first.Title)
	assert.Equal(t, "milk, eggs", first.Content)
	assert.True(t, original.CreatedAt.Equal(first.CreatedAt))

	second, err := repo.Read(ctx, "Groceries")
	require.NoError(t, err)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt), "createdAt must be stable across reads")
}

func TestCreate_OverwritesByDefault(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newNote("Draft", "v1")))
	require.NoError(t, repo.Create(ctx, newNote("Draft", "v2")))

	n, err := repo.Read(ctx, "Draft")
	require.NoError(t, err)
	assert.Equal(t, "v2", n.Content)
}

func TestCreate_StrictRefusesExisting(t *testing.T) {
	repo, _ := setupRepo(t, func(c *fs.Config) { c.StrictCreate = true })
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newNote("Draft", "v1")))
	err := repo.Create(ctx, newNote("Draft", "v2"))
	assert.ErrorIs(t, err, core.ErrConflict)

	n, err := repo.Read(ctx, "Draft")
	require.NoError(t, err)
	assert.Equal(t, "v1", n.Content)
}

func TestCreate_RejectsUnsafeTitles(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	for _, title := range []string{"../escape", "sub/dir", "..", "", ".jot", fs.TempFilePrefix + "x"} {
		assert.ErrorIs(t, repo.Create(ctx, newNote(title, "x")), core.ErrInvalidTitle, "title %q", title)
	}

	_, err := os.Stat(filepath.Join(filepath.Dir(path), "escape.json"))
	assert.True(t, os.IsNotExist(err), "nothing may be written outside the notes directory")
}

func TestList_SkipsDotFiles(t *testing.T) {
	repo, path := setupRepo(t, func(c *fs.Config) { c.Extension = ".yaml" })
	ctx := context.Background()

	settings := []byte("extension: .yaml\n")
	require.NoError(t, os.WriteFile(filepath.Join(path, ".jot.yaml"), settings, 0644))
	require.NoError(t, repo.Create(ctx, newNote("todo", "x")))

	infos, issues := collect(t, repo)
	assert.Empty(t, issues)
	assert.Equal(t, []string{"todo"}, titles(infos))

	assert.ErrorIs(t, repo.Delete(ctx, ".jot"), core.ErrInvalidTitle)
	_, err := repo.Read(ctx, ".jot")
	assert.ErrorIs(t, err, core.ErrInvalidTitle)

	kept, err := os.ReadFile(filepath.Join(path, ".jot.yaml"))
	require.NoError(t, err)
	assert.Equal(t, settings, kept)
}

func TestRead_Errors(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	_, err := repo.Read(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NotErrorIs(t, err, core.ErrParse)

	require.NoError(t, os.WriteFile(filepath.Join(path, "broken.json"), []byte("{not json"), 0644))
	_, err = repo.Read(ctx, "broken")
	assert.ErrorIs(t, err, core.ErrParse)
	assert.NotErrorIs(t, err, core.ErrNotFound)

	var pe *core.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "broken.json", pe.File)
}

func TestDelete(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newNote("Temp", "gone soon")))
	require.NoError(t, repo.Delete(ctx, "Temp"))

	_, err := repo.Read(ctx, "Temp")
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "Temp"), core.ErrNotFound)
}

func TestRename(t *testing.T) {
	ctx := context.Background()

	t.Run("Moves and Rewrites Title", func(t *testing.T) {
		repo, path := setupRepo(t)
		original := newNote("a", "body")
		require.NoError(t, repo.Create(ctx, original))

		require.NoError(t, repo.Rename(ctx, "a", "b"))

		n, err := repo.Read(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, "b", n.Title)
		assert.Equal(t, "body", n.Content)
		assert.True(t, original.CreatedAt.Equal(n.CreatedAt), "createdAt must survive rename")

		_, err = os.Stat(filepath.Join(path, "a.json"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("Conflict Leaves Both Untouched", func(t *testing.T) {
		repo, path := setupRepo(t)
		require.NoError(t, repo.Create(ctx, newNote("a", "first")))
		require.NoError(t, repo.Create(ctx, newNote("b", "second")))

		beforeA, _ := os.ReadFile(filepath.Join(path, "a.json"))
		beforeB, _ := os.ReadFile(filepath.Join(path, "b.json"))

		assert.ErrorIs(t, repo.Rename(ctx, "a", "b"), core.ErrConflict)

		afterA, _ := os.ReadFile(filepath.Join(path, "a.json"))
		afterB, _ := os.ReadFile(filepath.Join(path, "b.json"))
		assert.Equal(t, beforeA, afterA)
		assert.Equal(t, beforeB, afterB)
	})

	t.Run("Missing Source", func(t *testing.T) {
		repo, _ := setupRepo(t)
		assert.ErrorIs(t, repo.Rename(ctx, "ghost", "b"), core.ErrNotFound)
	})

	t.Run("Corrupt Source Does Not Move", func(t *testing.T) {
		repo, path := setupRepo(t)
		require.NoError(t, os.WriteFile(filepath.Join(path, "bad.json"), []byte("nope"), 0644))

		assert.ErrorIs(t, repo.Rename(ctx, "bad", "good"), core.ErrParse)
		_, err := os.Stat(filepath.Join(path, "bad.json"))
		assert.NoError(t, err)
		_, err = os.Stat(filepath.Join(path, "good.json"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("Same Title Is a No-op", func(t *testing.T) {
		repo, _ := setupRepo(t)
		require.NoError(t, repo.Create(ctx, newNote("same", "x")))
		assert.NoError(t, repo.Rename(ctx, "same", "same"))
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("Sorted Parseable Notes With Diagnostics", func(t *testing.T) {
		repo, path := setupRepo(t)
		require.NoError(t, repo.Create(ctx, newNote("b", "2")))
		require.NoError(t, repo.Create(ctx, newNote("a", "1")))
		require.NoError(t, os.WriteFile(filepath.Join(path, "corrupt.json"), []byte("garbage"), 0644))
		// Not notes: other extensions, the activity log, temp files, directories.
		require.NoError(t, os.WriteFile(filepath.Join(path, "activity.log"), []byte("x\n"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(path, fs.TempFilePrefix+"123"), []byte("{}"), 0644))
		require.NoError(t, os.Mkdir(filepath.Join(path, "folder.json"), 0755))

		infos, issues := collect(t, repo)
		assert.Equal(t, []string{"a", "b"}, titles(infos))
		assert.Equal(t, "a.json", infos[0].File)
		require.Len(t, issues, 1)
		assert.ErrorIs(t, issues[0], core.ErrParse)
	})

	t.Run("Stops When Consumer Breaks", func(t *testing.T) {
		repo, _ := setupRepo(t)
		for _, title := range []string{"a", "b", "c"} {
			require.NoError(t, repo.Create(ctx, newNote(title, "")))
		}

		seen := 0
		for range repo.List(ctx) {
			seen++
			break
		}
		assert.Equal(t, 1, seen)
	})

	t.Run("Missing Directory Yields One Error", func(t *testing.T) {
		repo := fs.NewRepository(fs.Config{Path: filepath.Join(t.TempDir(), "nope")})

		infos, issues := collect(t, repo)
		assert.Empty(t, infos)
		require.Len(t, issues, 1)
	})

	t.Run("Empty Directory", func(t *testing.T) {
		repo, _ := setupRepo(t)
		infos, issues := collect(t, repo)
		assert.Empty(t, infos)
		assert.Empty(t, issues)
	})
}

func TestGroceriesScenario(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newNote("Groceries", "milk, eggs")))

	infos, _ := collect(t, repo)
	assert.Equal(t, []string{"Groceries"}, titles(infos))

	n, err := repo.Read(ctx, "Groceries")
	require.NoError(t, err)
	assert.Equal(t, "milk, eggs", n.Content)

	require.NoError(t, repo.Delete(ctx, "Groceries"))

	infos, _ = collect(t, repo)
	assert.Empty(t, infos)
}

func TestReadOnly(t *testing.T) {
	dir := t.TempDir()
	writable := fs.NewRepository(fs.Config{Path: dir})
	require.NoError(t, writable.Create(context.Background(), newNote("keep", "x")))

	repo := fs.NewRepository(fs.Config{Path: dir, ReadOnly: true})
	ctx := context.Background()
	require.NoError(t, repo.Initialize(ctx))

	assert.ErrorIs(t, repo.Create(ctx, newNote("new", "x")), core.ErrReadOnly)
	assert.ErrorIs(t, repo.Delete(ctx, "keep"), core.ErrReadOnly)
	assert.ErrorIs(t, repo.Rename(ctx, "keep", "other"), core.ErrReadOnly)

	n, err := repo.Read(ctx, "keep")
	require.NoError(t, err)
	assert.Equal(t, "keep", n.Title)
}

func TestYAMLExtension(t *testing.T) {
	repo, path := setupRepo(t, func(c *fs.Config) { c.Extension = "yaml" })
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newNote("shopping", "in yaml")))

	data, err := os.ReadFile(filepath.Join(path, "shopping.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: shopping")

	n, err := repo.Read(ctx, "shopping")
	require.NoError(t, err)
	assert.Equal(t, "in yaml", n.Content)
	assert.Equal(t, "*.yaml", repo.Pattern())
}

func TestState(t *testing.T) {
	repo, path := setupRepo(t)

	state, ok := repo.State().(fs.RepositoryState)
	require.True(t, ok)
	assert.Equal(t, path, state.Path)
	assert.Equal(t, ".json", state.Extension)
	assert.False(t, state.WatcherActive)
	assert.Equal(t, "repository", repo.ComponentType())
}
