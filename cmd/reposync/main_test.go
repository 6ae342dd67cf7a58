package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quay/addonrepo/test"
)

const addonsXML = `<?xml version="1.0" encoding="UTF-8"?>
<addons>
  <addon id="plugin.a" name="Plugin A" version="1.0.0">
    <extension point="xbmc.python.pluginsource" library="default.py">
      <provides>video</provides>
    </extension>
    <extension point="xbmc.addon.metadata">
      <summary lang="en">A plugin</summary>
      <broken>gone</broken>
    </extension>
  </addon>
  <addon id="plugin.b" version="2.0.0">
    <requires>
      <import addon="plugin.a" version="1.0.0"/>
    </requires>
    <extension point="xbmc.python.pluginsource" library="default.py"/>
  </addon>
</addons>
`

func TestCommands(t *testing.T) {
	ctx := test.Logging(t)
	dir := t.TempDir()
	t.Chdir(dir)
	srv := filepath.Join(dir, "srv")
	for name, content := range map[string]string{
		"srv/addons.xml":                      addonsXML,
		"srv/addons.xml.md5":                  "d41d8cd98f00b204e9800998ecf8427e\n",
		"srv/plugin.a/plugin.a-1.0.0.zip.md5": "0123456789abcdef plugin.a-1.0.0.zip\n",
		"repositories.yaml": `repositories:
  - id: repository.local
    sources:
      - info: ` + srv + `/addons.xml
        checksum: ` + srv + `/addons.xml.md5
        datadir: ` + srv + `/
        zip: true
        hashes: true
`,
	} {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("REPOSYNC_DATABASE_DSN", filepath.Join(dir, "addons.db"))
	t.Setenv("REPOSYNC_PROMPT_ASSUME", "no")
	t.Setenv("REPOSYNC_SYNC_RATE", "0")

	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(args)
		if err := cmd.ExecuteContext(ctx); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	run("install", "plugin.a", "1.0.0")
	run("once", "repository.local")
	// The checksum hasn't changed, so this only touches the timestamp.
	run("once")
	run("list", "repository.local")
	got := run("hash", "repository.local", "plugin.a")
	if want := "0123456789abcdef"; strings.TrimSpace(got) != want {
		t.Errorf("got hash %q, want %q", got, want)
	}

	cmd := newRootCmd()
	cmd.SetArgs([]string{"hash", "repository.local", "plugin.missing"})
	cmd.SetOut(new(bytes.Buffer))
	if err := cmd.ExecuteContext(ctx); err == nil {
		t.Error("expected error for an unlisted package")
	}
}
