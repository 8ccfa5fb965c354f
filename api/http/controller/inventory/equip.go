package inventory

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"showtime/api/api/common"
	"showtime/api/codes"
	"showtime/api/model"
	"showtime/api/service/equip"
	"showtime/api/system"
)

type DropReq struct {
	CrawlerID  string          `json:"crawler_id"`
	TargetSlot string          `json:"target_slot"`
	Payload    json.RawMessage `json:"payload"`
}

// Drop validates an inventory-to-equipment drag payload and, when the slot
// matches, equips the item on the crawler. Mismatches and garbage payloads
// come back as rejections, not errors; the client shows inline feedback.
func Drop(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix()}

	var req DropReq
	if err := c.ShouldBindJSON(&req); err != nil || req.CrawlerID == "" || req.TargetSlot == "" {
		res.Code = codes.CODE_ERR_REQFORMAT
		res.Msg = "invalid drop body"
		c.JSON(http.StatusOK, res)
		return
	}

	item, err := equip.ValidateDrop(req.Payload, req.TargetSlot)
	if err != nil {
		res.Code = codes.CODE_ERR_BAD_PARAMS
		if errors.Is(err, equip.ErrSlotMismatch) {
			res.Msg = "item does not fit that slot"
		} else {
			res.Msg = "unreadable item payload"
		}
		res.Data = gin.H{"accepted": false}
		c.JSON(http.StatusOK, res)
		return
	}

	st := system.GetStore()
	found := false
	equipment := map[string]string{}
	for _, r := range st.GetCollection(model.ColCrawlers) {
		if r.ID() != req.CrawlerID {
			continue
		}
		found = true
		if cur, ok := r["equipment"].(map[string]interface{}); ok {
			for k, v := range cur {
				if s, ok := v.(string); ok {
					equipment[k] = s
				}
			}
		}
	}
	if !found {
		res.Code = codes.CODE_ERR_OBJ_NOT_FOUND
		res.Msg = "crawler not found"
		res.Data = gin.H{"accepted": false}
		c.JSON(http.StatusOK, res)
		return
	}
	equipment[req.TargetSlot] = item.ID
	if err := st.UpdateItem(model.ColCrawlers, req.CrawlerID, model.Record{"equipment": equipment}); err != nil {
		res.Code = codes.CODE_ERR_BAD_PARAMS
		res.Msg = err.Error()
		c.JSON(http.StatusOK, res)
		return
	}

	res.Code = codes.CODE_SUCCESS
	res.Msg = "success"
	res.Data = gin.H{"accepted": true, "item": item}
	c.JSON(http.StatusOK, res)
}
