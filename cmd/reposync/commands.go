package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/quay/addonrepo"
	"github.com/quay/addonrepo/reposync"
)

func newSyncCmd(a func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Sync every repository now, then on the configured interval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := a().manager.Start(cmd.Context())
			if errors.Is(err, cmd.Context().Err()) {
				return nil
			}
			return err
		},
	}
}

func newOnceCmd(a func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "once [repository...]",
		Short: "Sync the named repositories, or every repository, once",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 0 {
				return a().manager.Run(ctx)
			}
			var errs []error
			for _, id := range args {
				res, err := a().manager.Sync(ctx, id)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", id, err))
					continue
				}
				pterm.Info.Println(describe(id, res))
			}
			return errors.Join(errs...)
		},
	}
}

func describe(id string, res reposync.Result) string {
	switch {
	case res.Unchanged:
		return fmt.Sprintf("%s: unchanged", id)
	case res.Refused:
		return fmt.Sprintf("%s: update refused by repository", id)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d packages (%s)", id, res.Packages, res.Ref)
	for _, s := range []struct {
		name string
		ids  []string
	}{
		{"disabled", res.Actions.Disabled},
		{"declined", res.Actions.Declined},
		{"no longer broken", res.Actions.Unbroken},
	} {
		if len(s.ids) != 0 {
			fmt.Fprintf(&b, "; %s: %s", s.name, strings.Join(s.ids, ", "))
		}
	}
	return b.String()
}

func newListCmd(a func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <repository>",
		Short: "Show the stored listing of a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a().store.Snapshot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if snap == nil {
				return fmt.Errorf("%s: never synced", args[0])
			}
			pterm.DefaultSection.Printfln("%s (checksum %q, synced %s)",
				snap.Repository, snap.Checksum, snap.LastSync.Format("2006-01-02 15:04:05"))
			return pterm.DefaultTable.
				WithHasHeader().
				WithData(listingTable(snap.Packages)).
				Render()
		},
	}
}

func listingTable(pkgs []*addonrepo.Package) pterm.TableData {
	data := pterm.TableData{{"ID", "Version", "Kind", "Name", "Broken"}}
	for _, p := range pkgs {
		data = append(data, []string{p.ID, p.Version.String(), p.Kind(), p.Name, p.Broken})
	}
	return data
}

func newHashCmd(a func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hash <repository> <package>",
		Short: "Print the published hash of a package archive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repo, err := a().repository(args[0])
			if err != nil {
				return err
			}
			snap, err := a().store.Snapshot(ctx, repo.ID)
			if err != nil {
				return err
			}
			if snap == nil {
				return fmt.Errorf("%s: never synced", repo.ID)
			}
			for _, p := range snap.Packages {
				if p.ID != args[1] {
					continue
				}
				h := a().checksums.PackageHash(ctx, repo, p)
				if h == "" {
					return fmt.Errorf("%s: no hash published for %s", repo.ID, p.Path)
				}
				fmt.Fprintln(cmd.OutOrStdout(), h)
				return nil
			}
			return fmt.Errorf("%s: package %q not listed", repo.ID, args[1])
		},
	}
}

func newInstallCmd(a func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "install <package> [version]",
		Short: "Record a package as locally installed, or remove the record",
		Long: `Record a package as locally installed at the given version. Without a
version, the record is removed. Installed versions decide which broken
packages are acted on during a sync.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var v addonrepo.Version
			if len(args) == 2 {
				var err error
				if v, err = addonrepo.ParseVersion(args[1]); err != nil {
					return err
				}
			}
			return a().store.SetInstalled(cmd.Context(), args[0], v)
		},
	}
}
