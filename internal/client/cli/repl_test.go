package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	calls []string
	args  []string
}

func (f *fakeExec) record(name string, args ...string) {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args...)
}

func (f *fakeExec) New(ctx context.Context) error  { f.record("new"); return nil }
func (f *fakeExec) List(ctx context.Context) error { f.record("list"); return nil }
func (f *fakeExec) Open(ctx context.Context, id string) error {
	f.record("open", id)
	return nil
}
func (f *fakeExec) Send(ctx context.Context, text string) error {
	f.record("send", text)
	return nil
}
func (f *fakeExec) Rename(ctx context.Context, title string) error {
	f.record("rename", title)
	return nil
}
func (f *fakeExec) ToggleFavorite(ctx context.Context) error { f.record("fav"); return nil }
func (f *fakeExec) TogglePin(ctx context.Context) error      { f.record("pin"); return nil }
func (f *fakeExec) Tag(ctx context.Context, tag string) error {
	f.record("tag", tag)
	return nil
}
func (f *fakeExec) Untag(ctx context.Context, tag string) error {
	f.record("untag", tag)
	return nil
}
func (f *fakeExec) Move(ctx context.Context, folderID string) error {
	f.record("move", folderID)
	return nil
}
func (f *fakeExec) Search(ctx context.Context, query string) error {
	f.record("search", query)
	return nil
}
func (f *fakeExec) Folders(ctx context.Context) error { f.record("folders"); return nil }
func (f *fakeExec) MakeFolder(ctx context.Context, name string) error {
	f.record("mkfolder", name)
	return nil
}
func (f *fakeExec) RemoveFolder(ctx context.Context, id string) error {
	f.record("rmfolder", id)
	return nil
}
func (f *fakeExec) Export(ctx context.Context, path string) error {
	f.record("export", path)
	return nil
}
func (f *fakeExec) Import(ctx context.Context, path, strategy string) error {
	f.record("import", path, strategy)
	return nil
}
func (f *fakeExec) Stats(ctx context.Context) error { f.record("stats"); return nil }
func (f *fakeExec) Usage(ctx context.Context) error { f.record("usage"); return nil }
func (f *fakeExec) SetKey(ctx context.Context, providerName string) error {
	f.record("key", providerName)
	return nil
}
func (f *fakeExec) Delete(ctx context.Context) error { f.record("delete"); return nil }
func (f *fakeExec) Clear(ctx context.Context) error  { f.record("clear"); return nil }

func TestRunREPL_CommandsAndArgs(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"new",
		"send hello there",
		"list",
		"open conv-1",
		"rename My first chat",
		"fav",
		"tag work",
		"import backup.json replace",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"new", "send", "list", "open", "rename", "fav", "tag", "import"}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}

	wantArgs := []string{"hello there", "conv-1", "My first chat", "work", "backup.json", "replace"}
	for _, w := range wantArgs {
		found := false
		for _, got := range exec.args {
			if got == w {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("argument %q not passed through: %v", w, exec.args)
		}
	}
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("open\nsend\nimport\nquit\n")
	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

func TestRunREPL_DefaultImportStrategy(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("import backup.json\nexit\n")
	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "" }, sc)

	if len(exec.args) != 2 || exec.args[1] != "skip" {
		t.Fatalf("expected default strategy skip, got %v", exec.args)
	}
}
