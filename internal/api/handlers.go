package api

import (
	"dashboard/internal/engine"
	"dashboard/internal/models"
	"dashboard/internal/session"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	sessions *session.Store
}

func NewHandler(sessions *session.Store) *Handler {
	return &Handler{sessions: sessions}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	api := e.Group("/api")
	api.POST("/sessions", h.CreateSession)

	s := api.Group("/sessions/:id")
	s.GET("", h.GetView)
	s.DELETE("", h.DeleteSession)
	s.POST("/events", h.DispatchEvent)
	s.POST("/refresh", h.Refresh)
	s.GET("/kpis", h.GetKpis)
	s.GET("/charts/sales", h.GetSalesChart)
	s.GET("/charts/categories", h.GetCategoryChart)
	s.GET("/orders/recent", h.GetRecentOrders)
	s.GET("/inventory", h.GetInventory)
	s.GET("/export/inventory.csv", h.ExportInventoryCSV)
	s.GET("/export/sales.arrow", h.ExportSalesArrow)
}

type createSessionResponse struct {
	ID   string                `json:"id"`
	View *models.DashboardView `json:"view"`
}

// --- HELPERS ---

func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// queryList accepts both ?k=a&k=b and ?k=a,b.
func queryList(c echo.Context, key string) []string {
	var out []string
	for _, v := range c.QueryParams()[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (h *Handler) session(c echo.Context) (*session.Session, error) {
	return h.sessions.Get(c.Param("id"))
}

func (h *Handler) snapshot(c echo.Context) (*session.Session, *engine.Snapshot, error) {
	sess, err := h.session(c)
	if err != nil {
		return nil, nil, err
	}
	snap, err := sess.Snapshot()
	if err != nil {
		return nil, nil, err
	}
	return sess, snap, nil
}

// --- HANDLERS ---

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": h.sessions.Len(),
	})
}

func (h *Handler) CreateSession(c echo.Context) error {
	sess, err := h.sessions.Create()
	if err != nil {
		return err
	}
	view, err := sess.View()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createSessionResponse{ID: sess.ID, View: view})
}

func (h *Handler) GetView(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	view, err := sess.View()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) DeleteSession(c echo.Context) error {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DispatchEvent(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	var ev session.Event
	if err := c.Bind(&ev); err != nil {
		return err
	}
	view, err := sess.Dispatch(ev)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) Refresh(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	view, err := sess.Dispatch(session.Event{Type: session.EventRefreshed})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) GetKpis(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	view, err := sess.View()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view.Kpis)
}

// GetSalesChart uses the session's date range unless start/end are given.
func (h *Handler) GetSalesChart(c echo.Context) error {
	sess, snap, err := h.snapshot(c)
	if err != nil {
		return err
	}
	f := sess.Filters()
	if v := c.QueryParam("start"); v != "" {
		if f.Start, err = session.ParseDate(v); err != nil {
			return err
		}
	}
	if v := c.QueryParam("end"); v != "" {
		if f.End, err = session.ParseDate(v); err != nil {
			return err
		}
	}

	series, err := engine.FilterByDateRange(snap.Series, f.Start, f.End)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, engine.SalesChart(series))
}

func (h *Handler) GetCategoryChart(c echo.Context) error {
	sess, snap, err := h.snapshot(c)
	if err != nil {
		return err
	}
	f := sess.Filters()
	inventory := engine.FilterInventory(snap.Inventory, f.Statuses, f.Categories)
	return c.JSON(http.StatusOK, engine.CategoryChart(inventory))
}

// GetRecentOrders returns the newest days of the selected range, ?limit= overrides the table size.
func (h *Handler) GetRecentOrders(c echo.Context) error {
	sess, snap, err := h.snapshot(c)
	if err != nil {
		return err
	}
	f := sess.Filters()
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
		}
		f.TableRows = n
	}

	series, err := engine.FilterByDateRange(snap.Series, f.Start, f.End)
	if err != nil {
		return err
	}
	rows, err := engine.TailSortedByDateDesc(series, f.TableRows)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

// GetInventory filters by ?status= and ?category= when present, else by the session's selection.
func (h *Handler) GetInventory(c echo.Context) error {
	sess, snap, err := h.snapshot(c)
	if err != nil {
		return err
	}
	f := sess.Filters()

	if raw := queryList(c, "status"); len(raw) > 0 {
		f.Statuses = f.Statuses[:0]
		for _, s := range raw {
			st := models.Status(s)
			if !st.Valid() {
				return echo.NewHTTPError(http.StatusBadRequest, "unknown status "+strconv.Quote(s))
			}
			f.Statuses = append(f.Statuses, st)
		}
	}
	if raw := queryList(c, "category"); len(raw) > 0 {
		f.Categories = f.Categories[:0]
		for _, s := range raw {
			cat := models.Category(s)
			if !cat.Valid() {
				return echo.NewHTTPError(http.StatusBadRequest, "unknown category "+strconv.Quote(s))
			}
			f.Categories = append(f.Categories, cat)
		}
	}

	items := engine.FilterInventory(snap.Inventory, f.Statuses, f.Categories)
	total := len(items)
	limit, offset := getPaginationParams(c, total)

	if offset >= total {
		items = []models.InventoryItem{}
	} else {
		end := min(offset+limit, total)
		items = items[offset:end]
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   items,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) ExportInventoryCSV(c echo.Context) error {
	_, snap, err := h.snapshot(c)
	if err != nil {
		return err
	}
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="inventory.csv"`)
	res.WriteHeader(http.StatusOK)
	return engine.WriteInventoryCSV(res, snap.Inventory)
}

func (h *Handler) ExportSalesArrow(c echo.Context) error {
	_, snap, err := h.snapshot(c)
	if err != nil {
		return err
	}
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "application/vnd.apache.arrow.stream")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="sales.arrow"`)
	res.WriteHeader(http.StatusOK)
	return engine.WriteSalesArrow(res, snap.Series)
}
