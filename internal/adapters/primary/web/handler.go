// Package web serves the HTML form for requesting a house price estimate.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"

	"house-price-service/internal/adapters/secondary/apiclient"
	"house-price-service/internal/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

const pageTemplate = "index.html"

type UI struct {
	backend Backend
	tmpl    *template.Template
}

func New(backend Backend) (*UI, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &UI{backend: backend, tmpl: tmpl}, nil
}

func (u *UI) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", u.Index)
	r.POST("/", u.Submit)
}

type resultView struct {
	PredictionID string
	Price        string
	Interval     string
	ModelName    string

	// echoed from the response input
	Location  string
	TotalSqft string
	BHK       int
	Bath      string
}

type pageData struct {
	Form           formInput
	Locations      []string
	LocationsError string
	Problems       []string
	Error          string
	Result         *resultView
	Metadata       string
	MetadataError  string

	MinSqft, MaxSqft float64
	MinBHK, MaxBHK   int
	MinBath, MaxBath int
}

func (u *UI) Index(c *gin.Context) {
	data := u.newPage(c.Request.Context(), defaultForm())
	u.render(c, data)
}

func (u *UI) Submit(c *gin.Context) {
	form := formInput{
		Location:  c.PostForm("location"),
		TotalSqft: c.PostForm("total_sqft"),
		BHK:       c.PostForm("bhk"),
		Bath:      c.PostForm("bath"),
	}
	data := u.newPage(c.Request.Context(), form)

	req, problems := form.parse()
	if len(problems) > 0 {
		data.Problems = problems
		u.render(c, data)
		return
	}

	resp, err := u.backend.Predict(c.Request.Context(), req)
	if err != nil {
		log.WithError(err).WithField("location", req.Location).Warn("prediction request failed")
		data.Error = describeError(err)
		u.render(c, data)
		return
	}

	data.Result = toResultView(resp)
	u.render(c, data)
}

func (u *UI) newPage(ctx context.Context, form formInput) *pageData {
	data := &pageData{
		Form:    form,
		MinSqft: minSqft, MaxSqft: maxSqft,
		MinBHK: minBHK, MaxBHK: maxBHK,
		MinBath: minBath, MaxBath: maxBath,
	}

	locations, err := u.backend.Locations(ctx)
	if err != nil {
		log.WithError(err).Warn("load locations failed")
		data.LocationsError = "Could not load location options. " + describeError(err)
	}
	data.Locations = locations

	raw, err := u.backend.RawMetadata(ctx)
	if err != nil {
		log.WithError(err).Warn("load metadata failed")
		data.MetadataError = "Metadata could not be loaded. " + describeError(err)
		return data
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		data.Metadata = string(raw)
	} else {
		data.Metadata = pretty.String()
	}
	return data
}

func (u *UI) render(c *gin.Context, data *pageData) {
	c.Render(http.StatusOK, render.HTML{Template: u.tmpl, Name: pageTemplate, Data: data})
}

// describeError keeps API rejections apart from not reaching the API at all.
func describeError(err error) string {
	var statusErr *apiclient.StatusError
	switch {
	case errors.As(err, &statusErr):
		return "Error: " + statusErr.Error()
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return "Request failed: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}

func toResultView(resp *domain.PredictionResponse) *resultView {
	v := &resultView{
		PredictionID: resp.PredictionID.String(),
		Price:        fmt.Sprintf("%.2f", resp.PredictedPriceLakhs),
		ModelName:    resp.ModelMetadata.ModelName,
		Location:     resp.Input.Location,
		TotalSqft:    strconv.FormatFloat(resp.Input.TotalSqft, 'f', -1, 64),
		BHK:          resp.Input.BHK,
		Bath:         strconv.FormatFloat(resp.Input.Bath, 'f', -1, 64),
	}
	if resp.PredictionInterval95 != nil {
		v.Interval = fmt.Sprintf("%.2f", *resp.PredictionInterval95)
	}
	return v
}
