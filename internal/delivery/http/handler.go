package http

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AlvinMun/bestbeforeai/internal/domain"
	"github.com/AlvinMun/bestbeforeai/internal/usecase"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	auth  *usecase.AuthService
	items *usecase.ItemService
	ocr   *usecase.OCRService
	store Pinger
}

// NewHandler creates a new HTTP handler. A nil OCR service answers 501 on OCR routes.
func NewHandler(auth *usecase.AuthService, items *usecase.ItemService, ocr *usecase.OCRService, store Pinger) *Handler {
	return &Handler{
		auth:  auth,
		items: items,
		ocr:   ocr,
		store: store,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	status := "healthy"
	code := http.StatusOK
	if h.store != nil {
		if err := h.store.Ping(c.Request.Context()); err != nil {
			log.Printf("[HEALTH] Database ping failed: %v", err)
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	c.JSON(code, gin.H{
		"status":  status,
		"service": "bestbefore-api",
		"version": "1.0.0",
	})
}

// Register handles POST /auth/register
func (h *Handler) Register(c *gin.Context) {
	var creds domain.Credentials
	if !bindJSON(c, &creds) {
		return
	}

	token, err := h.auth.Register(c.Request.Context(), creds)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

// Login handles POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var creds domain.Credentials
	if !bindJSON(c, &creds) {
		return
	}

	token, err := h.auth.Login(c.Request.Context(), creds)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

// Me handles GET /auth/me
func (h *Handler) Me(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, domain.UserMe{ID: user.ID, Email: user.Email})
}

// ListItems handles GET /items
func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.items.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateItem handles POST /items
func (h *Handler) CreateItem(c *gin.Context) {
	var req domain.CreateItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.items.Create(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateItem handles PUT /items/:id
func (h *Handler) UpdateItem(c *gin.Context) {
	var req domain.UpdateItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.items.Update(c.Request.Context(), currentUser(c).ID, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItem handles DELETE /items/:id
func (h *Handler) DeleteItem(c *gin.Context) {
	if err := h.items.Delete(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SetFavorite handles PATCH /items/:id/favorite
func (h *Handler) SetFavorite(c *gin.Context) {
	var req domain.FavoriteUpdate
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.items.SetFavorite(c.Request.Context(), currentUser(c).ID, c.Param("id"), *req.Favorite)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// ScanImage handles POST /ocr with multipart field "file"
func (h *Handler) ScanImage(c *gin.Context) {
	if h.ocr == nil {
		detail(c, http.StatusNotImplemented, "OCR is not configured")
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		validationDetail(c, "file is required")
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		respondError(c, err)
		return
	}

	scan, err := h.ocr.Scan(c.Request.Context(), header.Filename, image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scan)
}

// AddScannedItem handles POST /ocr/add-item?name=&expiry_date=&storage=
func (h *Handler) AddScannedItem(c *gin.Context) {
	expiry, err := domain.ParseDate(c.Query("expiry_date"))
	if err != nil {
		validationDetail(c, "expiry_date must be a date in YYYY-MM-DD format")
		return
	}

	req := domain.CreateItemRequest{
		Name:       c.Query("name"),
		Storage:    domain.Storage(c.DefaultQuery("storage", string(domain.DefaultStorage))),
		ExpiryDate: expiry,
	}

	item, err := h.items.Create(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// bindJSON decodes the body or answers 422 with a validation detail
func bindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		validationDetail(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}

type detailMessage struct {
	Msg string `json:"msg"`
}

func detail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": message})
}

func validationDetail(c *gin.Context, messages ...string) {
	entries := make([]detailMessage, 0, len(messages))
	for _, m := range messages {
		entries = append(entries, detailMessage{Msg: m})
	}
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": entries})
}

// respondError maps domain errors to {"detail": ...} responses
func respondError(c *gin.Context, err error) {
	var validationErr *usecase.ValidationError
	if errors.As(err, &validationErr) {
		validationDetail(c, validationErr.Messages...)
		return
	}

	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		detail(c, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, domain.ErrInvalidCredentials):
		detail(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, domain.ErrInvalidToken):
		detail(c, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, domain.ErrUserNotFound):
		detail(c, http.StatusUnauthorized, "User not found")
	case errors.Is(err, domain.ErrUnauthorized):
		detail(c, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, domain.ErrItemNotFound):
		detail(c, http.StatusNotFound, "Item not found")
	case errors.Is(err, domain.ErrEmptyUpload):
		detail(c, http.StatusBadRequest, "Uploaded file is empty")
	case errors.Is(err, domain.ErrUploadTooLarge):
		detail(c, http.StatusRequestEntityTooLarge, "Uploaded file is too large")
	case errors.Is(err, domain.ErrOCRFailure):
		log.Printf("[HTTP] OCR failed: %v", err)
		detail(c, http.StatusUnprocessableEntity, "Could not read text from image")
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidDate):
		detail(c, http.StatusBadRequest, capitalize(err.Error()))
	default:
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		detail(c, http.StatusInternalServerError, "Internal server error")
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
