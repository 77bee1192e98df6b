package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varrock/clanhall-api/internal/dto"
	"github.com/varrock/clanhall-api/internal/models"
	appErrors "github.com/varrock/clanhall-api/pkg/errors"
)

type fakeDropSrv struct {
	drops  []models.Drop
	logged *models.Drop
	logErr error
}

func (f *fakeDropSrv) List() []models.Drop { return f.drops }

func (f *fakeDropSrv) Log(context.Context, dto.LogDropRequest) (*models.Drop, error) {
	return f.logged, f.logErr
}

func TestDropHandlerLog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewDropHandler(&fakeDropSrv{logged: &models.Drop{ID: "d1", ItemName: "Twisted bow"}})

	body := []byte(`{"playerName": "Zezima", "itemName": "Twisted bow", "boss": "Chambers of Xeric"}`)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/drops", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Log(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Twisted bow", envelope.Data["itemName"])
}

func TestDropHandlerLogValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewDropHandler(&fakeDropSrv{logErr: appErrors.Clone(appErrors.ErrValidation, "invalid drop payload")})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/drops", bytes.NewReader([]byte(`{}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Log(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
