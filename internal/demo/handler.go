package demo

import (
	"errors"
	"net/http"

	apperrors "github.com/Aidin1998/connectable/pkg/errors"
	"github.com/Aidin1998/connectable/pkg/responser"
	"github.com/gin-gonic/gin"
)

// ErrBoom is returned by the boom endpoint to exercise unclassified errors.
var ErrBoom = errors.New("boom")

// Handler serves the demo routes.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// Register adds the demo routes to r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", responser.Handle(h.health))

	v1 := r.Group("/api/v1")
	{
		items := v1.Group("/items")
		{
			items.GET("", responser.Handle(h.listItems))
			items.POST("", responser.Handle(h.createItem))
			items.GET("/:id", responser.Handle(h.getItem))
			items.DELETE("/:id", responser.Handle(h.deleteItem))
		}
		v1.GET("/boom", responser.Handle(h.boom))
	}
}

func (h *Handler) health(_ *gin.Context) (responser.Responser[responser.Empty], error) {
	return responser.Connector{}.ToDTO(), nil
}

func (h *Handler) listItems(_ *gin.Context) (responser.Responser[ItemList], error) {
	items := h.store.List()
	return ItemList{Items: items, Total: len(items)}.ToDTO(), nil
}

func (h *Handler) createItem(c *gin.Context) (responser.Responser[Item], error) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return responser.Responser[Item]{}, apperrors.BadRequest.Explain(err.Error()).Wrap(err)
	}
	item := h.store.Create(req)
	return item.ToDTO(
		responser.WithHTTPStatus(http.StatusCreated),
		responser.WithMessage("item created"),
	), nil
}

func (h *Handler) getItem(c *gin.Context) (responser.Responser[Item], error) {
	item, err := h.store.Get(c.Param("id"))
	if err != nil {
		return responser.Responser[Item]{}, err
	}
	return item.ToDTO(), nil
}

func (h *Handler) deleteItem(c *gin.Context) (responser.Responser[responser.Empty], error) {
	if err := h.store.Delete(c.Param("id")); err != nil {
		return responser.Responser[responser.Empty]{}, err
	}
	return responser.NewEmpty(responser.WithMessage("item deleted")), nil
}

func (h *Handler) boom(_ *gin.Context) (responser.Responser[responser.Empty], error) {
	return responser.Responser[responser.Empty]{}, ErrBoom
}
