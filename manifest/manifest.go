// Package manifest reads repository package manifests ("addons.xml") and
// repository add-on descriptors ("addon.xml").
package manifest

import (
	"context"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"github.com/quay/addonrepo"
)

// Default asset names, relative to a package's directory.
const (
	DefaultIcon      = `icon.png`
	DefaultFanart    = `fanart.jpg`
	DefaultChangelog = `changelog.txt`
)

// ParseDocument parses a manifest and returns its root element.
//
// The root element must be "addons".
func ParseDocument(b []byte) (*etree.Element, error) {
	const op = `manifest/ParseDocument`
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(b); err != nil {
		return nil, &addonrepo.Error{
			Op:      op,
			Kind:    addonrepo.ErrParse,
			Message: "malformed document",
			Inner:   err,
		}
	}
	root := doc.Root()
	switch {
	case root == nil:
		return nil, &addonrepo.Error{
			Op:      op,
			Kind:    addonrepo.ErrParse,
			Message: "missing root element",
		}
	case root.Tag != "addons":
		return nil, &addonrepo.Error{
			Op:      op,
			Kind:    addonrepo.ErrParse,
			Message: fmt.Sprintf("unexpected root element %q", root.Tag),
		}
	}
	return root, nil
}

// Packages returns a Package for every usable "addon" child of "root".
//
// Entries without an id or with a malformed version are skipped. Asset
// fields hold the default names relative to the package's directory, or are
// empty if the package's metadata opts out of them.
func Packages(ctx context.Context, root *etree.Element) []*addonrepo.Package {
	log := zerolog.Ctx(ctx).With().
		Str("component", "manifest/Packages").
		Logger()
	elems := root.SelectElements("addon")
	out := make([]*addonrepo.Package, 0, len(elems))
	for _, e := range elems {
		p, err := readPackage(e)
		if err != nil {
			log.Info().
				Err(err).
				Str("id", e.SelectAttrValue("id", "")).
				Msg("skipping entry")
			continue
		}
		out = append(out, p)
	}
	log.Debug().
		Int("count", len(out)).
		Msg("read packages")
	return out
}

func readPackage(e *etree.Element) (*addonrepo.Package, error) {
	id := e.SelectAttrValue("id", "")
	if id == "" {
		return nil, &addonrepo.Error{
			Op:      "manifest/readPackage",
			Kind:    addonrepo.ErrParse,
			Message: "missing id",
		}
	}
	v, err := addonrepo.ParseVersion(e.SelectAttrValue("version", ""))
	if err != nil {
		return nil, err
	}
	p := addonrepo.Package{
		ID:        id,
		Name:      e.SelectAttrValue("name", ""),
		Version:   v,
		Provider:  e.SelectAttrValue("provider-name", ""),
		Icon:      DefaultIcon,
		Fanart:    DefaultFanart,
		Changelog: DefaultChangelog,
	}
	if req := e.SelectElement("requires"); req != nil {
		for _, imp := range req.SelectElements("import") {
			dep := addonrepo.Dependency{
				ID:       imp.SelectAttrValue("addon", ""),
				Version:  addonrepo.VersionOrZero(imp.SelectAttrValue("version", "")),
				Optional: isTrue(imp.SelectAttrValue("optional", "")),
			}
			if dep.ID == "" {
				continue
			}
			p.Dependencies = append(p.Dependencies, dep)
		}
	}
	for _, ext := range e.SelectElements("extension") {
		point := ext.SelectAttrValue("point", "")
		if point == addonrepo.PointMetadata {
			readMetadata(&p, ext)
			continue
		}
		// The first non-metadata extension point is the package's kind.
		if p.Extension != nil {
			continue
		}
		var provides []string
		if pe := ext.SelectElement("provides"); pe != nil {
			provides = strings.Fields(pe.Text())
		}
		p.Extension = addonrepo.NewExtension(point,
			ext.SelectAttrValue("library", ""),
			provides,
			ext.SelectAttrValue("start", ""))
	}
	return &p, nil
}

func readMetadata(p *addonrepo.Package, ext *etree.Element) {
	p.Summary = localized(ext.SelectElements("summary"))
	if b := ext.SelectElement("broken"); b != nil {
		p.Broken = strings.TrimSpace(b.Text())
	}
	if flag(ext, "noicon") {
		p.Icon = ""
	}
	if flag(ext, "nofanart") {
		p.Fanart = ""
	}
	if flag(ext, "nochangelog") {
		p.Changelog = ""
	}
}

// Localized picks the English text of a repeated, localized element, falling
// back to one without a language and then to the first.
func localized(es []*etree.Element) string {
	if len(es) == 0 {
		return ""
	}
	var bare *etree.Element
	for _, e := range es {
		switch e.SelectAttrValue("lang", "") {
		case "en", "en_GB", "en_US":
			return strings.TrimSpace(e.Text())
		case "":
			if bare == nil {
				bare = e
			}
		}
	}
	if bare == nil {
		bare = es[0]
	}
	return strings.TrimSpace(bare.Text())
}

func flag(e *etree.Element, name string) bool {
	c := e.SelectElement(name)
	return c != nil && isTrue(c.Text())
}

func isTrue(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}
