package manifest

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"github.com/quay/addonrepo"
)

// Repository builds a Repository from the root "addon" element of a
// repository add-on's descriptor.
//
// Every "dir" element whose "minversion" is not newer than "host" becomes a
// Source, in document order. A nil "host" accepts every directory. A
// top-level "info" element describes one more Source, without version gating.
func Repository(ctx context.Context, root *etree.Element, host *semver.Version) (*addonrepo.Repository, error) {
	const op = `manifest/Repository`
	log := zerolog.Ctx(ctx).With().
		Str("component", "manifest/Repository").
		Logger()
	if root == nil || root.Tag != "addon" {
		return nil, &addonrepo.Error{
			Op:      op,
			Kind:    addonrepo.ErrParse,
			Message: "root element is not an addon",
		}
	}
	id := root.SelectAttrValue("id", "")
	if id == "" {
		return nil, &addonrepo.Error{
			Op:      op,
			Kind:    addonrepo.ErrParse,
			Message: "missing id",
		}
	}
	var ext *etree.Element
	for _, e := range root.SelectElements("extension") {
		if e.SelectAttrValue("point", "") == addonrepo.PointRepository {
			ext = e
			break
		}
	}
	if ext == nil {
		return nil, &addonrepo.Error{
			Op:      op,
			Kind:    addonrepo.ErrInvalid,
			Message: fmt.Sprintf("%q does not declare a repository", id),
		}
	}
	log = log.With().Str("repository", id).Logger()
	v, err := addonrepo.ParseVersion(root.SelectAttrValue("version", ""))
	if err != nil {
		return nil, fmt.Errorf("manifest: repository %q: %w", id, err)
	}
	r := addonrepo.Repository{
		ID:         id,
		Name:       root.SelectAttrValue("name", ""),
		Version:    v,
		Library:    ext.SelectAttrValue("library", ""),
		EntryPoint: ext.SelectAttrValue("entry", ""),
	}

	for _, dir := range ext.SelectElements("dir") {
		mv := dir.SelectAttrValue("minversion", "")
		if host != nil && mv != "" {
			min, err := semver.NewVersion(mv)
			if err != nil {
				log.Warn().
					Err(err).
					Str("minversion", mv).
					Msg("skipping directory with malformed minversion")
				continue
			}
			if min.GreaterThan(host) {
				log.Debug().
					Str("minversion", mv).
					Stringer("host", host).
					Msg("skipping directory for newer host")
				continue
			}
		}
		src := readSource(dir)
		src.MinVersion = mv
		r.Sources = append(r.Sources, src)
	}
	if strings.TrimSpace(childText(ext, "info")) != "" {
		r.Sources = append(r.Sources, readSource(ext))
	}
	log.Debug().
		Int("sources", len(r.Sources)).
		Bool("script", r.ScriptDriven()).
		Msg("read repository")
	return &r, nil
}

func readSource(e *etree.Element) addonrepo.Source {
	src := addonrepo.Source{
		Checksum: childText(e, "checksum"),
		Info:     childText(e, "info"),
		Datadir:  childText(e, "datadir"),
		Hashes:   isTrue(childText(e, "hashes")),
	}
	if info := e.SelectElement("info"); info != nil {
		src.Compressed = isTrue(info.SelectAttrValue("compressed", ""))
	}
	if dd := e.SelectElement("datadir"); dd != nil {
		src.Zipped = isTrue(dd.SelectAttrValue("zip", ""))
	}
	return src
}

func childText(e *etree.Element, name string) string {
	c := e.SelectElement(name)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text())
}

// LoadRepository fetches a repository add-on descriptor from "url" and
// builds a Repository from it.
func LoadRepository(ctx context.Context, l Loader, url string, host *semver.Version) (*addonrepo.Repository, error) {
	b, err := l.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("manifest: fetching %q: %w", url, err)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(b); err != nil {
		return nil, &addonrepo.Error{
			Op:      "manifest/LoadRepository",
			Kind:    addonrepo.ErrParse,
			Message: fmt.Sprintf("malformed descriptor %q", url),
			Inner:   err,
		}
	}
	return Repository(ctx, doc.Root(), host)
}
