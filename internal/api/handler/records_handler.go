package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
)

// RecordsHandler serves the dining history screen.
type RecordsHandler struct {
	service ports.RecordsService
}

func NewRecordsHandler(service ports.RecordsService) *RecordsHandler {
	return &RecordsHandler{service: service}
}

// List returns the caller's dining records with reviews and outstanding debt.
//
// @Summary      Dining records
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  recordsResponse
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /records [get]
func (h *RecordsHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	page, err := h.service.DiningRecords(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRecordsResponse(page))
}

// Review records a like or dislike for one dining record.
//
// @Summary      Review a meal
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true  "Dining record ID"
// @Param        body  body      reviewRequest  true  "Review"
// @Success      201   {object}  reviewResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /records/{id}/review [post]
func (h *RecordsHandler) Review(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	verdict, err := domain.ParseVerdict(req.Verdict)
	if err != nil {
		return err
	}

	review, err := h.service.SubmitReview(c.Request().Context(), sess, id, verdict, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toReviewResponse(review))
}
