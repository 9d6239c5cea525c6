package server

import (
	"errors"
	"fmt"
	"net/http"

	"bestfit/internal/logging"
	"bestfit/internal/profile"
	"bestfit/internal/recommend"
	"bestfit/internal/usage"
	"bestfit/internal/wizard"

	"github.com/gin-gonic/gin"
)

// SessionView is the JSON representation of one wizard session.
type SessionView struct {
	ID      string           `json:"id"`
	State   wizard.State     `json:"state"`
	Profile *profile.Profile `json:"profile"`
}

// ProfilePatch is a partial profile update. Nil fields are left untouched;
// an empty string clears a scalar field.
type ProfilePatch struct {
	AgeRange    *string `json:"age_range"`
	Sex         *string `json:"sex"`
	WeightRange *string `json:"weight_range"`
	HeightRange *string `json:"height_range"`
	ShoeSize    *string `json:"shoe_size"`
	FootWidth   *string `json:"foot_width"`
	ArchType    *string `json:"arch_type"`
	Injury      *string `json:"injury"`

	Activities      *[]profile.Activity                         `json:"selected_activities"`
	ActivityDetails map[profile.Activity]profile.ActivityDetail `json:"activity_details"`
	Priorities      *[]string                                   `json:"priorities"`
}

// Apply writes the patch to p, stopping at the first invalid value.
func (pp ProfilePatch) Apply(p *profile.Profile) error {
	scalars := []struct {
		v   *string
		set func(string) error
	}{
		{pp.AgeRange, p.SetAgeRange},
		{pp.Sex, p.SetSex},
		{pp.WeightRange, p.SetWeightRange},
		{pp.HeightRange, p.SetHeightRange},
		{pp.ShoeSize, p.SetShoeSize},
		{pp.FootWidth, p.SetFootWidth},
		{pp.ArchType, p.SetArchType},
		{pp.Injury, p.SetInjury},
	}
	for _, s := range scalars {
		if s.v == nil {
			continue
		}
		if err := s.set(*s.v); err != nil {
			return err
		}
	}

	if pp.Activities != nil {
		if err := p.SetActivities(*pp.Activities); err != nil {
			return err
		}
	}
	// apply details in activity order so errors are deterministic
	for _, a := range profile.Activities {
		d, ok := pp.ActivityDetails[a]
		if !ok {
			continue
		}
		if err := p.SetActivityDetail(a, d); err != nil {
			return err
		}
	}
	for a := range pp.ActivityDetails {
		if !profile.IsActivity(string(a)) {
			return &profile.FieldError{Field: "activity_details", Value: string(a)}
		}
	}
	if pp.Priorities != nil {
		if err := p.SetPriorities(*pp.Priorities); err != nil {
			return err
		}
	}
	return nil
}

type loginRequest struct {
	Email string `json:"email" binding:"required"`
}

// Handler serves the wizard API.
type Handler struct {
	store *Store
	usage *usage.Tracker
}

// NewHandler creates a handler over store. tracker may be nil.
func NewHandler(store *Store, tracker *usage.Tracker) *Handler {
	return &Handler{store: store, usage: tracker}
}

func view(id string, ctl *wizard.Controller) SessionView {
	return SessionView{ID: id, State: ctl.State(), Profile: ctl.Profile()}
}

func notFound(c *gin.Context, id string) {
	RespondError(c, http.StatusNotFound, CodeSessionNotFound, fmt.Errorf("session %s not found", id))
}

// respondTransitionError maps controller errors to HTTP statuses.
func respondTransitionError(c *gin.Context, err error) {
	var ve *wizard.ValidationError
	var be *recommend.BoundaryError
	var fe *profile.FieldError
	switch {
	case errors.As(err, &ve):
		RespondError(c, http.StatusUnprocessableEntity, CodeValidationFailed, errors.New(ve.Message))
	case errors.As(err, &fe):
		RespondError(c, http.StatusBadRequest, CodeInvalidField, err)
	case errors.As(err, &be):
		RespondError(c, http.StatusBadGateway, CodeRecommendationFail, errors.New(recommend.Message(be.Err)))
	case errors.Is(err, wizard.ErrInvalidTransition):
		RespondError(c, http.StatusConflict, CodeInvalidTransition, err)
	default:
		RespondError(c, http.StatusInternalServerError, CodeInternal, err)
	}
}

// GET /healthz
func (h *Handler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /api/usage
func (h *Handler) Usage(c *gin.Context) {
	if h.usage == nil {
		RespondOK(c, usage.AggregatedStats{})
		return
	}
	RespondOK(c, h.usage.Stats())
}

// GET /api/options
func (h *Handler) Options(c *gin.Context) {
	RespondOK(c, profile.Options())
}

// POST /api/sessions
func (h *Handler) CreateSession(c *gin.Context) {
	id := h.store.Create()
	h.store.With(id, func(ctl *wizard.Controller) {
		c.JSON(http.StatusCreated, view(id, ctl))
	})
	logging.Server("session %s created (%d live)", id, h.store.Len())
}

// GET /api/sessions/:id
func (h *Handler) GetSession(c *gin.Context) {
	id := c.Param("id")
	if !h.store.With(id, func(ctl *wizard.Controller) { RespondOK(c, view(id, ctl)) }) {
		notFound(c, id)
	}
}

// DELETE /api/sessions/:id
func (h *Handler) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	if !h.store.Delete(id) {
		notFound(c, id)
		return
	}
	if h.usage != nil {
		h.usage.Forget(id)
	}
	logging.Server("session %s deleted", id)
	c.Status(http.StatusNoContent)
}

// PATCH /api/sessions/:id/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	id := c.Param("id")
	var patch ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, http.StatusBadRequest, CodeInvalidRequest, err)
		return
	}
	found := h.store.With(id, func(ctl *wizard.Controller) {
		if err := ctl.Update(patch.Apply); err != nil {
			respondTransitionError(c, err)
			return
		}
		RespondOK(c, view(id, ctl))
	})
	if !found {
		notFound(c, id)
	}
}

// POST /api/sessions/:id/advance
func (h *Handler) Advance(c *gin.Context) {
	id := c.Param("id")
	found := h.store.With(id, func(ctl *wizard.Controller) {
		ctx := usage.WithSession(c.Request.Context(), id)
		if h.usage != nil {
			ctx = usage.NewContext(ctx, h.usage)
		}
		if err := ctl.Advance(ctx); err != nil {
			logging.ServerDebug("session %s advance failed: %v", id, err)
			respondTransitionError(c, err)
			return
		}
		RespondOK(c, view(id, ctl))
	})
	if !found {
		notFound(c, id)
	}
}

// POST /api/sessions/:id/retreat
func (h *Handler) Retreat(c *gin.Context) {
	id := c.Param("id")
	found := h.store.With(id, func(ctl *wizard.Controller) {
		if err := ctl.Retreat(); err != nil {
			respondTransitionError(c, err)
			return
		}
		RespondOK(c, view(id, ctl))
	})
	if !found {
		notFound(c, id)
	}
}

// POST /api/sessions/:id/restart
func (h *Handler) Restart(c *gin.Context) {
	id := c.Param("id")
	found := h.store.With(id, func(ctl *wizard.Controller) {
		ctl.Restart()
		RespondOK(c, view(id, ctl))
	})
	if !found {
		notFound(c, id)
	}
}

// POST /api/sessions/:id/login
func (h *Handler) Login(c *gin.Context) {
	id := c.Param("id")
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, CodeInvalidRequest, err)
		return
	}
	found := h.store.With(id, func(ctl *wizard.Controller) {
		if err := ctl.Login(req.Email); err != nil {
			respondTransitionError(c, err)
			return
		}
		RespondOK(c, view(id, ctl))
	})
	if !found {
		notFound(c, id)
	}
}

// POST /api/sessions/:id/logout
func (h *Handler) Logout(c *gin.Context) {
	id := c.Param("id")
	found := h.store.With(id, func(ctl *wizard.Controller) {
		ctl.Logout()
		RespondOK(c, view(id, ctl))
	})
	if !found {
		notFound(c, id)
	}
}
