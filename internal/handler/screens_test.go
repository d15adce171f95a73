package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/cmarinek/red-square-broadcast/internal/model"
	"github.com/cmarinek/red-square-broadcast/internal/service"
)

type fakeScreens struct {
	filter   model.ScreenFilter
	input    service.ScreenInput
	patch    service.ScreenPatch
	actor    string
	role     model.Role
	list     []model.Screen
	notFound bool
}

func (f *fakeScreens) Discover(_ context.Context, fl model.ScreenFilter) ([]model.Screen, error) {
	f.filter = fl
	return f.list, nil
}

func (f *fakeScreens) Get(_ context.Context, id string) (model.Screen, error) {
	if f.notFound {
		return model.Screen{}, service.ErrScreenNotFound
	}
	return model.Screen{ID: id, Name: "Arbat"}, nil
}

func (f *fakeScreens) Slots(_ context.Context, _ string) ([]string, error) {
	return []string{"09:00", "10:00", "11:00"}, nil
}

func (f *fakeScreens) Create(_ context.Context, ownerID string, in service.ScreenInput) (model.Screen, error) {
	f.actor, f.input = ownerID, in
	return model.Screen{ID: "scr-new", OwnerID: ownerID, Name: in.Name}, nil
}

func (f *fakeScreens) Update(_ context.Context, actorID string, role model.Role, id string, p service.ScreenPatch) (model.Screen, error) {
	f.actor, f.role, f.patch = actorID, role, p
	return model.Screen{ID: id}, nil
}

func (f *fakeScreens) Owned(_ context.Context, ownerID string) ([]model.Screen, error) {
	return nil, nil
}

func newScreensEcho(fs *fakeScreens) *ScreenHandler {
	return NewScreenHandler(discard(), fs)
}

func TestScreens_ListParsesFilters(t *testing.T) {
	fs := &fakeScreens{}
	e, g := newTestEcho(nil)
	h := newScreensEcho(fs)
	e.GET("/v1/screens", h.List)
	g.GET("/owner/screens", h.Owned)

	rec := call(t, e, http.MethodGet, "/v1/screens?city=Moscow&q=%20square%20&max_price=5000&limit=10", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.ScreenFilter{City: "Moscow", Query: "square", MaxPrice: 5000, Limit: 10}, fs.filter)
	assert.Equal(t, "[]", gjson.Get(rec.Body.String(), "screens").Raw)

	rec = call(t, e, http.MethodGet, "/v1/screens?max_price=cheap", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid max_price", gjson.Get(rec.Body.String(), "error").String())

	rec = call(t, e, http.MethodGet, "/v1/owner/screens", "owner-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", gjson.Get(rec.Body.String(), "screens").Raw)
}

func TestScreens_GetAndSlots(t *testing.T) {
	fs := &fakeScreens{}
	e, _ := newTestEcho(nil)
	h := newScreensEcho(fs)
	e.GET("/v1/screens/:id", h.Get)
	e.GET("/v1/screens/:id/slots", h.Slots)

	rec := call(t, e, http.MethodGet, "/v1/screens/s1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Arbat", gjson.Get(rec.Body.String(), "screen_name").String())

	rec = call(t, e, http.MethodGet, "/v1/screens/s1/slots", "", "")
	assert.Equal(t, int64(3), gjson.Get(rec.Body.String(), "time_slots.#").Int())

	fs.notFound = true
	rec = call(t, e, http.MethodGet, "/v1/screens/s1", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScreens_CreateValidates(t *testing.T) {
	fs := &fakeScreens{}
	e, g := newTestEcho(fixedRoles{"owner-1": model.RoleScreenOwner})
	h := newScreensEcho(fs)
	g.POST("/screens", h.Create)
	g.PATCH("/screens/:id", h.Update)

	rec := call(t, e, http.MethodPost, "/v1/screens", "owner-1", `{"screen_name":"Lobby","price_per_hour":1500,"availability_start":"09:00"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "availability_end required", gjson.Get(rec.Body.String(), "error").String())

	rec = call(t, e, http.MethodPost, "/v1/screens", "owner-1", `{"screen_name":"Lobby","price_per_hour":0,"availability_start":"09:00","availability_end":"17:00"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, e, http.MethodPost, "/v1/screens", "owner-1", `{"screen_name":"Lobby","city":"Kazan","price_per_hour":1500,"availability_start":"09:00","availability_end":"17:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "owner-1", fs.actor)
	assert.Equal(t, "Kazan", fs.input.City)

	rec = call(t, e, http.MethodPatch, "/v1/screens/scr-new", "owner-1", `{"price_per_hour":2000}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.RoleScreenOwner, fs.role)
	require.NotNil(t, fs.patch.PricePerHour)
	assert.Equal(t, int64(2000), *fs.patch.PricePerHour)
	assert.Nil(t, fs.patch.Name)

	rec = call(t, e, http.MethodPatch, "/v1/screens/scr-new", "owner-1", `{"availability_end":"5pm"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "availability_end clock", gjson.Get(rec.Body.String(), "error").String())
}
