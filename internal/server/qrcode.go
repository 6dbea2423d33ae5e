package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"
	"github.com/vvakame/foodexpress/internal/failure"
	"github.com/vvakame/foodexpress/internal/graph"
	"github.com/vvakame/foodexpress/internal/log"
)

const qrCodeSize = 256

// orderQRCode renders the tracking link of one of the caller's orders as a PNG.
func (srv *Server) orderQRCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "id")

	order, err := srv.projection.Order(graph.UserID(ctx), orderID)
	if errors.Is(err, failure.ErrNotFound) {
		http.NotFound(w, r)
		return
	} else if err != nil {
		log.FromContext(ctx).Error(err, "failed to find order", "orderID", orderID)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	png, err := qrcode.Encode(srv.TrackingURL(order.ID), qrcode.Medium, qrCodeSize)
	if err != nil {
		log.FromContext(ctx).Error(err, "failed to encode qr code", "orderID", orderID)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}
