package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/programhub/internal/app/models"
	"github.com/yigit/programhub/internal/app/models/dto"
	"github.com/yigit/programhub/internal/pkg/helpers"
)

// listPage is the ?page= and ?size= selection of a listing request. Without
// either parameter the whole listing is returned.
type listPage struct {
	page  int
	size  int
	paged bool
}

func parseListPage(ctx *gin.Context) listPage {
	page, size, paged := helpers.ParsePaginationParams(ctx)
	return listPage{page: page, size: size, paged: paged}
}

// window is the storage window for the selection.
func (p listPage) window() models.Page {
	if !p.paged {
		return models.Page{}
	}
	return helpers.PageOf(p.page, p.size)
}

// respond writes data, adding the pagination block when a page was requested.
func (p listPage) respond(ctx *gin.Context, data interface{}, total int64) {
	if !p.paged {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(data))
		return
	}
	ctx.JSON(http.StatusOK, dto.NewPagedResponse(data, helpers.NewPaginationInfo(total, p.page, p.size)))
}
