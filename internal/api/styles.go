package api

import (
	"encoding/json"
	"net/http"

	"github.com/DMarby/cdnstyle/internal/handler"
)

// StyleInfo describes a configured image style
type StyleInfo struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Effects []string `json:"effects"`
}

func (a *API) stylesHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	names := a.Renderer.Styles.Names()
	styles := make([]StyleInfo, 0, len(names))

	for _, name := range names {
		s, err := a.Renderer.Styles.Get(name)
		if err != nil {
			a.logError(r, "error getting style", err)
			return handler.InternalServerError()
		}

		info := StyleInfo{
			Name:    s.Name,
			Label:   s.Label,
			Effects: make([]string, len(s.Effects)),
		}

		for i, effect := range s.Effects {
			info.Effects[i] = effect.Kind().String()
		}

		styles = append(styles, info)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if err := json.NewEncoder(w).Encode(styles); err != nil {
		a.logError(r, "error encoding style list", err)
		return handler.InternalServerError()
	}

	return nil
}
