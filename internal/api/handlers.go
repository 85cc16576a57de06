package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khrees2412/mockprep/internal/app"
	"github.com/khrees2412/mockprep/internal/service"
	"github.com/khrees2412/mockprep/internal/validation"
	"github.com/khrees2412/mockprep/pkg/models"
)

func (h *Handler) SignUp(c *gin.Context) {
	var input validation.SignUp
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session, err := h.Services.Account.SignUp(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session, err := h.Services.Account.SignIn(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.Services.Account.SignOut(c.Request.Context(), currentSession(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.Services.Profile.FetchProfile(c.Request.Context(), currentSession(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var input validation.ProfileUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	profile, err := h.Services.Profile.UpdateProfile(c.Request.Context(), currentSession(c), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var input validation.PasswordChange
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Services.Profile.ChangePassword(c.Request.Context(), currentSession(c), input); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) SaveResumeText(c *gin.Context) {
	var input struct {
		Resume string `json:"resume"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	profile, err := h.Services.Profile.SaveResumeText(c.Request.Context(), currentSession(c), input.Resume)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.Services.Settings.Fetch(c.Request.Context(), currentSession(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings takes a loose JSON object so that wrong-typed values get
// field messages rather than a bind error
func (h *Handler) UpdateSettings(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	settings, err := h.Services.Settings.UpdateRaw(c.Request.Context(), currentSession(c), raw)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// GetResume returns the resume or null when none has been uploaded
func (h *Handler) GetResume(c *gin.Context) {
	resume, err := h.Services.Resume.Fetch(c.Request.Context(), currentSession(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resume": resume})
}

func (h *Handler) UploadResume(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("file is required: %v", err)})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	resume, err := h.Services.Resume.Upload(c.Request.Context(), currentSession(c), service.UploadFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, nil)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resume)
}

func (h *Handler) DeleteResume(c *gin.Context) {
	if err := h.Services.Resume.Delete(c.Request.Context(), currentSession(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// GetActivity serves one-based pages: ?page=&per_page=&type=
func (h *Handler) GetActivity(c *gin.Context) {
	var query struct {
		Page    int    `form:"page"`
		PerPage int    `form:"per_page"`
		Type    string `form:"type"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", app.ErrInvalidArgument, err))
		return
	}

	page, err := h.Services.Activity.Query(c.Request.Context(), currentSession(c), validation.ActivityQuery{
		Page:         query.Page,
		PerPage:      query.PerPage,
		ActivityType: query.Type,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) ListInterviews(c *gin.Context) {
	interviews, err := h.Services.Interview.List(c.Request.Context(), currentSession(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, interviews)
}

func (h *Handler) CreateInterview(c *gin.Context) {
	var input models.InterviewRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	interview, err := h.Services.Interview.Create(c.Request.Context(), currentSession(c), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, interview)
}

func (h *Handler) GetQuestions(c *gin.Context) {
	set, err := h.Services.Interview.Questions(c.Request.Context(), currentSession(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

func (h *Handler) GetOverview(c *gin.Context) {
	ov, err := h.Services.Overview.Load(c.Request.Context(), currentSession(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ov)
}
