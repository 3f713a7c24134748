package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"steam-toolbox/adapters/storage"
	"steam-toolbox/core/batch"
	"steam-toolbox/core/fittings"
	"steam-toolbox/core/property"
	"steam-toolbox/core/units"
	"steam-toolbox/internal/errors"
)

const (
	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// handleHealth handles GET /health
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: s.version,
		History: s.store != nil,
		Time:    time.Now().UTC(),
	})
}

// handleSolve handles POST /api/v1/solve
func (s *Server) handleSolve(c *gin.Context) {
	start := time.Now()

	var body SolveRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithCode(c, http.StatusBadRequest, codeInvalidJSON, err.Error())
		return
	}

	req, err := s.builder.Build(body.Input)
	if err != nil {
		s.writeError(c, err)
		return
	}
	res, err := s.solver.Solve(req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	resp := &SolveResponse{Name: body.Name, Result: res}
	if s.store != nil {
		rec, err := storage.NewRecord(body.Name, req, res)
		if err == nil {
			err = s.store.Save(c.Request.Context(), rec)
		}
		if err != nil {
			// The result is still valid; only the history entry is lost
			s.logger.Warn("failed to record calculation", zap.String("request_id", requestID(c)), zap.Error(err))
		} else {
			resp.ID = rec.ID
		}
	}
	resp.Metadata = s.metadata(c, body, start)
	c.JSON(http.StatusOK, resp)
}

// handleBatch handles POST /api/v1/batch. Cases that fail to build are
// reported as failed items; the rest are solved concurrently.
func (s *Server) handleBatch(c *gin.Context) {
	start := time.Now()

	var body BatchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithCode(c, http.StatusBadRequest, codeInvalidJSON, err.Error())
		return
	}
	if len(body.Cases) == 0 {
		s.writeError(c, errors.InvalidInput("cases", 0, "must not be empty"))
		return
	}
	if len(body.Cases) > s.maxBatchCases {
		abortWithCode(c, http.StatusRequestEntityTooLarge, codeBatchTooLarge,
			"batch has "+strconv.Itoa(len(body.Cases))+" cases, limit is "+strconv.Itoa(s.maxBatchCases))
		return
	}

	items := make([]BatchItem, len(body.Cases))
	runnable := make([]batch.Case, 0, len(body.Cases))
	positions := make([]int, 0, len(body.Cases))
	buildFailures := 0

	for i, bc := range body.Cases {
		name := bc.Name
		if name == "" {
			name = "case-" + strconv.Itoa(i+1)
		}
		req, err := s.builder.Build(body.Defaults.Merge(bc.Input))
		if err != nil {
			items[i] = BatchItem{Item: batch.Item{Index: i, Name: name, Err: err, Error: err.Error()}}
			buildFailures++
			continue
		}
		runnable = append(runnable, batch.Case{Name: name, Request: req})
		positions = append(positions, i)
	}

	solved, stats := s.runner.Run(c.Request.Context(), runnable)
	for j, item := range solved {
		i := positions[j]
		item.Index = i
		items[i] = BatchItem{Item: item}
		if !item.OK() || s.store == nil {
			continue
		}
		rec, err := storage.NewRecord(item.Name, runnable[j].Request, item.Result)
		if err == nil {
			err = s.store.Save(c.Request.Context(), rec)
		}
		if err != nil {
			s.logger.Warn("failed to record batch case",
				zap.String("request_id", requestID(c)), zap.String("case", item.Name), zap.Error(err))
			continue
		}
		items[i].ID = rec.ID
	}

	stats.Total += buildFailures
	stats.Failed += buildFailures

	c.JSON(http.StatusOK, &BatchResponse{
		Items:    items,
		Stats:    stats,
		Metadata: s.metadata(c, body, start),
	})
}

// handleConvert handles GET /api/v1/convert?kind=&value=&from=&to=
func (s *Server) handleConvert(c *gin.Context) {
	kindStr, valueStr, from, to := c.Query("kind"), c.Query("value"), c.Query("from"), c.Query("to")
	if kindStr == "" || valueStr == "" || from == "" || to == "" {
		abortWithCode(c, http.StatusBadRequest, codeMissingParameter, "kind, value, from and to are required")
		return
	}
	kind, err := units.ParseKind(kindStr)
	if err != nil {
		s.writeError(c, err)
		return
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		s.writeError(c, errors.InvalidInput("value", valueStr, "must be a number"))
		return
	}
	out, err := units.Convert(kind, value, from, to)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ConvertResponse{Kind: string(kind), Value: value, From: from, To: to, Out: out})
}

// handleSteam handles GET /api/v1/steam?pressure=&temperature=
func (s *Server) handleSteam(c *gin.Context) {
	pStr := c.Query("pressure")
	if pStr == "" {
		abortWithCode(c, http.StatusBadRequest, codeMissingParameter, "pressure is required")
		return
	}
	mode := s.pressureMode
	if m := c.Query("pressure_mode"); m != "" {
		var err error
		if mode, err = units.ParsePressureMode(m); err != nil {
			s.writeError(c, err)
			return
		}
	}
	p, err := units.ParsePressure(pStr, "", mode)
	if err != nil {
		s.writeError(c, err)
		return
	}

	var temperature *float64
	if tStr := c.Query("temperature"); tStr != "" {
		t, err := units.ParseQuantity(units.KindTemperature, tStr, "K")
		if err != nil {
			s.writeError(c, err)
			return
		}
		temperature = &t
	}

	table, err := property.LookupSteam(p, temperature)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// handleFittings handles GET /api/v1/fittings
func (s *Server) handleFittings(c *gin.Context) {
	list := fittings.Catalogue()
	c.JSON(http.StatusOK, gin.H{"count": len(list), "fittings": list})
}

// handleMaterials handles GET /api/v1/materials
func (s *Server) handleMaterials(c *gin.Context) {
	list := s.materials.List()
	c.JSON(http.StatusOK, gin.H{"count": len(list), "materials": list})
}

// requireHistory rejects history requests when no store is configured
func (s *Server) requireHistory(c *gin.Context) {
	if s.store == nil {
		abortWithCode(c, http.StatusServiceUnavailable, codeHistoryDisabled, "calculation history is disabled")
		return
	}
	c.Next()
}

// handleListHistory handles GET /api/v1/history?fluid=&since=&until=&limit=&offset=
func (s *Server) handleListHistory(c *gin.Context) {
	filter := &storage.ListFilter{Fluid: strings.ToLower(strings.TrimSpace(c.Query("fluid")))}

	var err error
	if qs := c.Query("since"); qs != "" {
		if filter.Since, err = parseQueryTime("since", qs); err != nil {
			s.writeError(c, err)
			return
		}
	}
	if qs := c.Query("until"); qs != "" {
		if filter.Until, err = parseQueryTime("until", qs); err != nil {
			s.writeError(c, err)
			return
		}
		// A date-only bound covers the whole day
		if !strings.ContainsAny(qs, "T ") {
			filter.Until = filter.Until.Add(24*time.Hour - time.Millisecond)
		}
	}
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		s.writeError(c, err)
		return
	}
	if filter.Offset, err = queryInt(c, "offset"); err != nil {
		s.writeError(c, err)
		return
	}

	records, err := s.store.List(c.Request.Context(), filter)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, HistoryResponse{Count: len(records), Records: records})
}

// handleGetHistory handles GET /api/v1/history/:id
func (s *Server) handleGetHistory(c *gin.Context) {
	rec, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// handleDeleteHistory handles DELETE /api/v1/history/:id
func (s *Server) handleDeleteHistory(c *gin.Context) {
	if err := s.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleCompare handles GET /api/v1/compare?old=&new=
func (s *Server) handleCompare(c *gin.Context) {
	oldID, newID := c.Query("old"), c.Query("new")
	if oldID == "" || newID == "" {
		abortWithCode(c, http.StatusBadRequest, codeMissingParameter, "old and new are required")
		return
	}
	cmp, err := storage.Compare(c.Request.Context(), s.store, oldID, newID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

func parseQueryTime(field, s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.InvalidInput(field, s, "must be RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'")
}

func queryInt(c *gin.Context, field string) (int, error) {
	qs := c.Query(field)
	if qs == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(qs)
	if err != nil || n < 0 {
		return 0, errors.InvalidInput(field, qs, "must be a non-negative integer")
	}
	return n, nil
}
