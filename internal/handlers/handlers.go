package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/vision-classifier/internal/apperrors"
	"github.com/example/vision-classifier/internal/normalizer"
	"github.com/example/vision-classifier/internal/usecase"
)

// DefaultMaxUploadSize caps the multipart body when no limit is configured.
const DefaultMaxUploadSize = 5 << 20

const (
	msgNoImage          = "No image file provided"
	msgMethodNotAllowed = "Method not allowed"
)

// Classifier is the use case behind POST /upload.
type Classifier interface {
	Classify(ctx context.Context, payload usecase.ImagePayload) (*normalizer.ClassificationResult, error)
}

type uploadForm struct {
	Image *multipart.FileHeader `form:"image" binding:"required"`
}

// NewRouter builds the gin engine serving the upload endpoint.
func NewRouter(uc Classifier, logger *zap.Logger, maxUploadSize int64, middleware ...gin.HandlerFunc) *gin.Engine {
	if maxUploadSize <= 0 {
		maxUploadSize = DefaultMaxUploadSize
	}

	router := gin.New()
	router.MaxMultipartMemory = maxUploadSize
	router.HandleMethodNotAllowed = true
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	router.Use(middleware...)
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic while handling request", zap.Any("panic", recovered))
		writeError(c, apperrors.Internal(fmt.Errorf("panic: %v", recovered)))
	}))
	router.Use(CORS())

	RegisterRoutes(router, uc, logger, maxUploadSize)
	return router
}

// RegisterRoutes wires the HTTP handlers to the Gin router.
func RegisterRoutes(router *gin.Engine, uc Classifier, logger *zap.Logger, maxUploadSize int64) {
	router.POST("/upload", uploadHandler(uc, logger, maxUploadSize))

	methodNotAllowed := func(c *gin.Context) {
		writeError(c, apperrors.Routing(msgMethodNotAllowed))
	}
	router.NoRoute(methodNotAllowed)
	router.NoMethod(methodNotAllowed)
}

// CORS adds the cross-origin headers to every response and answers
// preflight requests on any path.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func uploadHandler(uc Classifier, logger *zap.Logger, maxUploadSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Leave room for multipart framing around the file itself.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize+64<<10)

		var form uploadForm
		if err := c.ShouldBind(&form); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(c, apperrors.Validation(msgNoImage, fmt.Sprintf("image exceeds %d bytes", maxUploadSize)))
				return
			}
			writeError(c, apperrors.Validation(msgNoImage, ""))
			return
		}

		file := form.Image
		if file.Size == 0 {
			writeError(c, apperrors.Validation(msgNoImage, ""))
			return
		}
		if file.Size > maxUploadSize {
			writeError(c, apperrors.Validation(msgNoImage, fmt.Sprintf("image exceeds %d bytes", maxUploadSize)))
			return
		}

		data, err := readFile(file)
		if err != nil {
			writeError(c, apperrors.Validation(msgNoImage, "unable to read image"))
			return
		}

		result, err := uc.Classify(c.Request.Context(), usecase.ImagePayload{
			Bytes:       data,
			Filename:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Size:        file.Size,
		})
		if err != nil {
			_ = c.Error(err)
			if apperrors.KindOf(err) != apperrors.KindValidation {
				logger.Error("classification failed", zap.Error(err), zap.String("filename", file.Filename))
			}
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func readFile(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(src)
}

func writeError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperrors.StatusOf(apperrors.KindOf(err)), apperrors.ToEnvelope(err))
}
