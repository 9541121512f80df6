// Package http provides http transport for settings
package http

import (
	stdhttp "net/http"

	"confsrv/internal/modkit/httpkit"
	"confsrv/internal/modkit/swaggerkit"
	aldomain "confsrv/internal/services/actionlog/domain"
	"confsrv/internal/services/settings/domain"
)

// Register mounts the settings endpoints; callers put them behind auth
func Register(r httpkit.Router, prefix string, s domain.ServicePort) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/{name}", h.get)
	httpkit.PutJSON[domain.SaveInput](r, "/{name}", h.save)

	name := swaggerkit.Param{Name: "name", In: "path", Type: "string", Required: true, Desc: "setting name, e.g. au_seerev"}
	swaggerkit.Schema("SaveSetting", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"value": map[string]any{"type": "integer", "nullable": true},
			"data":  map[string]any{"type": "string", "nullable": true, "maxLength": 65535},
		},
	})
	swaggerkit.Register(swaggerkit.Op{
		Method: "GET", Path: prefix + "/{name}", Tag: "Settings", Secure: true,
		Summary: "Read one conference setting (PC and chairs)",
		Params:  []swaggerkit.Param{name},
	})
	swaggerkit.Register(swaggerkit.Op{
		Method: "PUT", Path: prefix + "/{name}", Tag: "Settings", Secure: true,
		Summary: "Change or delete a setting (chairs); null value and data delete it",
		Params:  []swaggerkit.Param{name}, Body: "SaveSetting",
	})
}

type handlers struct{ svc domain.ServicePort }

func (h *handlers) get(r *stdhttp.Request) (any, error) {
	contact, err := httpkit.Contact(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Get(r.Context(), contact, httpkit.URLParam(r, "name"))
}

func (h *handlers) save(r *stdhttp.Request, in domain.SaveInput) (any, error) {
	contact, err := httpkit.Contact(r)
	if err != nil {
		return nil, err
	}
	who := aldomain.Actor{ContactID: contact, IPAddr: httpkit.ClientIP(r)}
	st, err := h.svc.Save(r.Context(), who, httpkit.URLParam(r, "name"), in)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return httpkit.NoContent(), nil
	}
	return st, nil
}
