package addonrepo

// Extension is the kind-specific part of a Package.
//
// The set of implementations is closed; code that needs kind-specific
// behavior should use a type switch. Everything else works on [Package].
type Extension interface {
	// Point is the extension point the package declared.
	Point() string
	extension()
}

// Extension point names.
const (
	PointPlugin     = `xbmc.python.pluginsource`
	PointScript     = `xbmc.python.script`
	PointModule     = `xbmc.python.module`
	PointService    = `xbmc.service`
	PointSkin       = `xbmc.gui.skin`
	PointRepository = `xbmc.addon.repository`
	PointMetadata   = `xbmc.addon.metadata`
)

// Plugin is a content source plugin.
type Plugin struct {
	Library  string
	Provides []string
}

// Script is a runnable script.
type Script struct {
	Library string
}

// Module is a library used by other packages.
type Module struct {
	Library string
}

// Service is a package started in the background.
type Service struct {
	Library string
	Start   string
}

// Skin is a user interface skin.
type Skin struct{}

// RepositoryExtension marks a package that is itself a repository.
type RepositoryExtension struct{}

// Generic is any extension point without dedicated handling.
type Generic struct {
	PointName string
}

func (Plugin) Point() string              { return PointPlugin }
func (Script) Point() string              { return PointScript }
func (Module) Point() string              { return PointModule }
func (Service) Point() string             { return PointService }
func (Skin) Point() string                { return PointSkin }
func (RepositoryExtension) Point() string { return PointRepository }
func (g Generic) Point() string           { return g.PointName }

func (Plugin) extension()              {}
func (Script) extension()              {}
func (Module) extension()              {}
func (Service) extension()             {}
func (Skin) extension()                {}
func (RepositoryExtension) extension() {}
func (Generic) extension()             {}

// NewExtension returns the Extension for the named point.
//
// The library, provides, and start arguments are dropped for kinds that
// don't use them.
func NewExtension(point, library string, provides []string, start string) Extension {
	switch point {
	case PointPlugin:
		return Plugin{Library: library, Provides: provides}
	case PointScript:
		return Script{Library: library}
	case PointModule:
		return Module{Library: library}
	case PointService:
		return Service{Library: library, Start: start}
	case PointSkin:
		return Skin{}
	case PointRepository:
		return RepositoryExtension{}
	case "":
		return nil
	default:
		return Generic{PointName: point}
	}
}

// ExtensionJSON is the persisted form of an Extension.
type extensionJSON struct {
	Point    string   `json:"point"`
	Library  string   `json:"library,omitempty"`
	Provides []string `json:"provides,omitempty"`
	Start    string   `json:"start,omitempty"`
}

func toExtensionJSON(e Extension) *extensionJSON {
	if e == nil {
		return nil
	}
	j := extensionJSON{Point: e.Point()}
	switch e := e.(type) {
	case Plugin:
		j.Library = e.Library
		j.Provides = e.Provides
	case Script:
		j.Library = e.Library
	case Module:
		j.Library = e.Library
	case Service:
		j.Library = e.Library
		j.Start = e.Start
	}
	return &j
}

func (j *extensionJSON) extension() Extension {
	if j == nil {
		return nil
	}
	return NewExtension(j.Point, j.Library, j.Provides, j.Start)
}
