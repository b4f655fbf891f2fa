// Package inspect serves a read-only JSON view of a container: its active
// bindings, cached shared instances and registered types.
//
//	GET /bindings        [{"id": "mailer", "shared": true}, ...]
//	GET /instances       ["config", "container", ...]
//	GET /has/{id}        {"id": "mailer", "bound": true}
//	GET /types/{name}    {"name": "Mailer", "instantiable": true, "params": [...]}
//	GET /resolve/{id}    {"id": "mailer", "type": "*mail.Mailer"}
package inspect

import (
	"fmt"
	"net/http"
	"sort"

	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
	"github.com/km-arc/go-container/framework/routing"
)

// BindingView is one active binding.
type BindingView struct {
	ID     string `json:"id"`
	Shared bool   `json:"shared"`
}

// ParamView describes one constructor parameter.
type ParamView struct {
	Name       string   `json:"name"`
	Types      []string `json:"types,omitempty"`
	HasDefault bool     `json:"hasDefault"`
	Optional   bool     `json:"optional"`
	Variadic   bool     `json:"variadic"`
}

// TypeView describes a registered type.
type TypeView struct {
	Name           string      `json:"name"`
	Instantiable   bool        `json:"instantiable"`
	HasConstructor bool        `json:"hasConstructor"`
	Params         []ParamView `json:"params"`
}

// Handler exposes one container over HTTP.
type Handler struct {
	c      *container.Container
	logger *zap.Logger
}

// NewHandler creates a Handler for c, logging through c's logger.
func NewHandler(c *container.Container) *Handler {
	return &Handler{c: c, logger: c.Logger().Named("inspect")}
}

// Routes mounts the inspector under prefix.
func (h *Handler) Routes(r *routing.Router, prefix string) {
	r.Prefix(prefix, func(r *routing.Router) {
		r.Get("/bindings", h.Bindings)
		r.Get("/instances", h.Instances)
		r.Get("/has/{id}", h.Has)
		r.Get("/types/{name}", h.Type)
		r.Get("/resolve/{id}", h.Resolve)
	})
}

func (h *Handler) Bindings(w http.ResponseWriter, r *http.Request) {
	registry := h.c.Bindings()
	ids := registry.IDs()
	out := make([]BindingView, 0, len(ids))
	for _, id := range ids {
		if b := registry.Get(id); b != nil {
			out = append(out, BindingView{ID: id, Shared: b.IsShared()})
		}
	}
	gohttp.NewResponse(w).Success(out)
}

func (h *Handler) Instances(w http.ResponseWriter, r *http.Request) {
	instances := h.c.Instances()
	ids := make([]string, 0, len(instances))
	for id := range instances {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	gohttp.NewResponse(w).Success(ids)
}

func (h *Handler) Has(w http.ResponseWriter, r *http.Request) {
	id := routing.Param(r, "id")
	gohttp.NewResponse(w).Success(map[string]any{"id": id, "bound": h.c.Has(id)})
}

func (h *Handler) Type(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	info, err := h.c.Types().Introspect(routing.Param(r, "name"))
	if err != nil {
		res.NotFound(err.Error())
		return
	}

	view := TypeView{
		Name:           info.Name,
		Instantiable:   info.Instantiable,
		HasConstructor: info.HasConstructor,
		Params:         make([]ParamView, 0, len(info.Params)),
	}
	for _, p := range info.Params {
		pv := ParamView{Name: p.Name, HasDefault: p.HasDefault, Optional: p.Optional, Variadic: p.Variadic}
		for _, t := range p.Types {
			pv.Types = append(pv.Types, t.Name)
		}
		view.Params = append(view.Params, pv)
	}
	res.Success(view)
}

// Resolve builds id and reports the Go type of the result.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	id := routing.Param(r, "id")
	res := gohttp.NewResponse(w)

	instance, err := h.c.Get(r.Context(), id)
	if err != nil {
		h.logger.Warn("resolve failed", zap.String("id", id), zap.Error(err))
		res.FromError(err)
		return
	}
	res.Success(map[string]any{"id": id, "type": fmt.Sprintf("%T", instance)})
}
