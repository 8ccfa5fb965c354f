package mapview

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"showtime/api/api/common"
	mycache "showtime/api/cache"
	"showtime/api/codes"
	"showtime/api/config"
	"showtime/api/model"
	"showtime/api/security"
	"showtime/api/service/game"
	"showtime/api/system"
)

// roleOf resolves the caller's role from an optional bearer token. No token
// (or a bad one) views as a spectator; the map endpoints are world-readable
// by design, only their content differs per role.
func roleOf(c *gin.Context) string {
	raw := strings.TrimPrefix(c.Request.Header.Get("Authorization"), "Bearer ")
	if raw == "" {
		return model.RoleSpectator
	}
	claims, err := security.ParseToken(config.Get().Game.JwtSecret, raw)
	if err != nil {
		return model.RoleSpectator
	}
	if claims.Elevated {
		return model.RoleDM
	}
	return model.RolePlayer
}

// Render returns the per-role view of a map: image, grid, boxes and the fog
// overlay at the role's opacity. Cached per map and role.
func Render(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix()}
	mapID := c.Param("mapId")
	if mapID == "" {
		res.Code = codes.CODE_ERR_BAD_PARAMS
		res.Msg = "mapId is required"
		c.JSON(http.StatusOK, res)
		return
	}
	role := roleOf(c)

	if payload, ok := mycache.GetRender(mapID, role); ok {
		res.Code = codes.CODE_SUCCESS
		res.Msg = "success"
		res.Data = payload
		c.JSON(http.StatusOK, res)
		return
	}

	payload, err := system.GetGame().Render(role, mapID)
	if err != nil {
		if errors.Is(err, game.ErrMapNotFound) {
			res.Code = codes.CODE_ERR_OBJ_NOT_FOUND
			res.Msg = "map not found"
		} else {
			res.Code = codes.CODE_ERR_UNKNOWN
			res.Msg = err.Error()
		}
		c.JSON(http.StatusOK, res)
		return
	}
	mycache.SetRender(mapID, role, payload)

	res.Code = codes.CODE_SUCCESS
	res.Msg = "success"
	res.Data = payload
	c.JSON(http.StatusOK, res)
}

// ShowTime returns the map currently broadcast to the table, if any.
func ShowTime(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix(), Code: codes.CODE_SUCCESS, Msg: "success"}
	role := roleOf(c)

	for _, r := range system.GetStore().GetCollection(model.ColMaps) {
		if on, _ := r["show_time"].(bool); on {
			payload, err := system.GetGame().Render(role, r.ID())
			if err == nil {
				res.Data = payload
			}
			break
		}
	}
	c.JSON(http.StatusOK, res)
}

type MeasureReq struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Measure runs the grid ruler between two percent-space points.
func Measure(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix()}
	mapID := c.Param("mapId")

	var req MeasureReq
	if err := c.ShouldBindJSON(&req); err != nil {
		res.Code = codes.CODE_ERR_REQFORMAT
		res.Msg = "invalid measure body"
		c.JSON(http.StatusOK, res)
		return
	}
	units, err := system.GetGame().Measure(mapID, req.X1, req.Y1, req.X2, req.Y2)
	if err != nil {
		res.Code = codes.CODE_ERR_OBJ_NOT_FOUND
		res.Msg = err.Error()
		c.JSON(http.StatusOK, res)
		return
	}

	res.Code = codes.CODE_SUCCESS
	res.Msg = "success"
	res.Data = gin.H{"units": units}
	c.JSON(http.StatusOK, res)
}

// ClearFog re-fogs the whole map. DM-only behind the interceptor; the
// service checks again.
func ClearFog(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix()}
	mapID := c.Param("mapId")

	if err := system.GetGame().ClearFog(model.RoleDM, mapID); err != nil {
		res.Code = codes.CODE_ERR_OBJ_NOT_FOUND
		res.Msg = err.Error()
		c.JSON(http.StatusOK, res)
		return
	}
	mycache.Invalidate(mapID)

	res.Code = codes.CODE_SUCCESS
	res.Msg = "success"
	c.JSON(http.StatusOK, res)
}

// SetShowTime broadcasts a map to the table view. DM-only.
func SetShowTime(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix()}
	mapID := c.Param("mapId")

	if err := system.GetGame().SetShowTime(model.RoleDM, mapID); err != nil {
		res.Code = codes.CODE_ERR_OBJ_NOT_FOUND
		res.Msg = err.Error()
		c.JSON(http.StatusOK, res)
		return
	}

	res.Code = codes.CODE_SUCCESS
	res.Msg = "success"
	c.JSON(http.StatusOK, res)
}

// SetGrid updates a map's grid settings. DM-only.
func SetGrid(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix()}
	mapID := c.Param("mapId")

	var grid model.GridSettings
	if err := c.ShouldBindJSON(&grid); err != nil {
		res.Code = codes.CODE_ERR_REQFORMAT
		res.Msg = "invalid grid body"
		c.JSON(http.StatusOK, res)
		return
	}
	if err := system.GetGame().SetGrid(model.RoleDM, mapID, grid); err != nil {
		res.Code = codes.CODE_ERR_OBJ_NOT_FOUND
		res.Msg = err.Error()
		c.JSON(http.StatusOK, res)
		return
	}
	mycache.Invalidate(mapID)

	res.Code = codes.CODE_SUCCESS
	res.Msg = "success"
	c.JSON(http.StatusOK, res)
}
