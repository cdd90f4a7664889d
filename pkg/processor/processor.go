package processor

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aldor007/imgfind/pkg/config"
	"github.com/aldor007/imgfind/pkg/monitoring"
	"github.com/aldor007/imgfind/pkg/resolver"
	"github.com/aldor007/imgfind/pkg/response"
	"github.com/aldor007/imgfind/pkg/source"
)

// ErrUnknownCollection is returned for collections missing in configuration
var ErrUnknownCollection = errors.New("unknown collection")

// siteImagesResponse is envelope of /site-images
type siteImagesResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      []string  `json:"data"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type collectionInfo struct {
	Kind  string   `json:"kind"`
	Roots []string `json:"roots"`
}

type serverInfo struct {
	Environment     string                    `json:"environment"`
	ContentRootPath string                    `json:"contentRootPath"`
	WebRootPath     string                    `json:"webRootPath"`
	Collections     map[string]collectionInfo `json:"collections"`
}

type testResponse struct {
	Success    bool       `json:"success"`
	Message    string     `json:"message"`
	Timestamp  time.Time  `json:"timestamp"`
	ServerInfo serverInfo `json:"serverInfo"`
}

// RequestProcessor handles image requests for configured collections
type RequestProcessor struct {
	cfg     *config.Config
	sources map[string]source.Source
	now     func() time.Time
}

// NewRequestProcessor creates processor, sources must contain entry for each collection
func NewRequestProcessor(cfg *config.Config, sources map[string]source.Source) *RequestProcessor {
	return &RequestProcessor{cfg: cfg, sources: sources, now: time.Now}
}

// Collections returns names of served collections
func (r *RequestProcessor) Collections() []string {
	return r.cfg.CollectionNames()
}

// GetImage finds image in collection and returns its content
func (r *RequestProcessor) GetImage(ctx context.Context, collection, id string) *response.Response {
	src, ok := r.sources[collection]
	if !ok {
		return r.report(collection, "get", response.NewString(http.StatusNotFound, "Collection not found"))
	}

	img, err := src.Fetch(ctx, id)
	if err != nil {
		return r.report(collection, "get", r.replyWithError(collection, id, err))
	}

	monitoring.Log().Info("Serving image", zap.String("collection", collection), zap.String("id", id),
		zap.String("path", img.Path), zap.Int("size", len(img.Body)))
	res := response.NewBuf(http.StatusOK, img.Body)
	res.SetContentType(img.ContentType)
	return r.report(collection, "get", res)
}

// ListImages returns names of all images in collection
func (r *RequestProcessor) ListImages(ctx context.Context, collection string) *response.Response {
	src, ok := r.sources[collection]
	if !ok {
		return r.report(collection, "list", response.NewString(http.StatusNotFound, "Collection not found"))
	}

	names, err := src.List(ctx)
	if err != nil {
		monitoring.Log().Error("Error getting images list", zap.String("collection", collection), zap.Error(err))
		return r.report(collection, "list", response.NewError(http.StatusInternalServerError, err))
	}

	return r.report(collection, "list", response.NewJSON(http.StatusOK, names))
}

// SiteImages returns URLs of configured site images which exist in site images collection
func (r *RequestProcessor) SiteImages(ctx context.Context, baseURL string) *response.Response {
	collection := r.cfg.SiteImages.Collection
	src, ok := r.sources[collection]
	if !ok {
		monitoring.Log().Error("Error getting site images", zap.String("collection", collection), zap.Error(ErrUnknownCollection))
		return r.report(collection, "site", response.NewJSON(http.StatusInternalServerError, errorEnvelope{Message: "Internal server error"}))
	}

	urls := []string{}
	for _, name := range r.cfg.SiteImages.Files {
		found, err := src.Exists(ctx, name)
		if err != nil && !errors.Is(err, resolver.ErrInvalidIdentifier) {
			monitoring.Log().Error("Error getting site images", zap.String("name", name), zap.Error(err))
			return r.report(collection, "site", response.NewJSON(http.StatusInternalServerError, errorEnvelope{Message: "Internal server error"}))
		}

		if !found {
			monitoring.Log().Warn("Site image not found", zap.String("name", name), zap.String("collection", collection))
			continue
		}

		urls = append(urls, ImageURL(baseURL, collection, name))
	}

	monitoring.Log().Info("Returning site images", zap.Int("count", len(urls)))
	return r.report(collection, "site", response.NewJSON(http.StatusOK, siteImagesResponse{
		Success:   true,
		Message:   "Site images retrieved successfully",
		Data:      urls,
		Count:     len(urls),
		Timestamp: r.now().UTC(),
	}))
}

// SiteImagesTest returns diagnostic information about configured roots
func (r *RequestProcessor) SiteImagesTest() *response.Response {
	info := serverInfo{
		Environment:     r.cfg.Server.Environment,
		ContentRootPath: r.cfg.Server.ContentRoot,
		WebRootPath:     r.cfg.Server.WebRoot,
		Collections:     make(map[string]collectionInfo, len(r.sources)),
	}

	for name, src := range r.sources {
		info.Collections[name] = collectionInfo{Kind: src.Kind(), Roots: src.Roots()}
	}

	return response.NewJSON(http.StatusOK, testResponse{
		Success:    true,
		Message:    "Site Images API is working!",
		Timestamp:  r.now().UTC(),
		ServerInfo: info,
	})
}

// Health returns service status
func (r *RequestProcessor) Health() *response.Response {
	return response.NewJSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Image API is ready to serve images",
	})
}

// BaseURL returns public URL of API used in site images links
// When not configured it is built from request.
func (r *RequestProcessor) BaseURL(req *http.Request) string {
	if r.cfg.Server.PublicBaseURL != "" {
		return r.cfg.Server.PublicBaseURL
	}

	scheme := "http"
	if req.TLS != nil || req.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}

	return scheme + "://" + req.Host + r.cfg.Server.PathPrefix
}

// ImageURL builds absolute URL of image in collection
func ImageURL(baseURL, collection, name string) string {
	return baseURL + "/" + url.PathEscape(collection) + "/" + url.PathEscape(name)
}

func (r *RequestProcessor) replyWithError(collection, id string, err error) *response.Response {
	switch {
	case errors.Is(err, resolver.ErrInvalidIdentifier):
		monitoring.Log().Warn("Invalid filename requested", zap.String("collection", collection), zap.String("id", id))
		return response.NewString(http.StatusBadRequest, "Invalid filename")
	case errors.Is(err, resolver.ErrNotFound):
		monitoring.Log().Warn("Image not found", zap.String("collection", collection), zap.String("id", id))
		return response.NewString(http.StatusNotFound, "Image '"+id+"' not found")
	default:
		monitoring.Log().Error("Error serving image", zap.String("collection", collection), zap.String("id", id), zap.Error(err))
		return response.NewError(http.StatusInternalServerError, err)
	}
}

func (r *RequestProcessor) report(collection, op string, res *response.Response) *response.Response {
	monitoring.Report().Inc("imgfind_requests;collection:" + collection + ",op:" + op + ",status:" + strconv.Itoa(res.StatusCode))
	return res
}
