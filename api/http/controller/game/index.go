package game

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"showtime/api/api/common"
	"showtime/api/codes"
	"showtime/api/model"
	"showtime/api/store"
	"showtime/api/system"
)

// Load returns the full snapshot: every collection, keyed by name. Clients
// call this once at startup and fall back to their own local cache when it
// fails.
func Load(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix(), Code: codes.CODE_SUCCESS, Msg: "success"}

	st := system.GetStore()
	res.Data = gin.H{
		"loaded":      st.Loaded(),
		"collections": st.SnapshotCopy(),
	}
	c.JSON(http.StatusOK, res)
}

// Save replaces the whole snapshot. Last write wins; a concurrent writer's
// unsynced change is silently overwritten, which is the documented policy.
func Save(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix()}

	var snap store.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		res.Code = codes.CODE_ERR_REQFORMAT
		res.Msg = "invalid snapshot body"
		c.JSON(http.StatusOK, res)
		return
	}
	if err := system.GetStore().ReplaceAll(snap); err != nil {
		res.Code = codes.CODE_ERR_BAD_PARAMS
		res.Msg = err.Error()
		c.JSON(http.StatusOK, res)
		return
	}

	res.Code = codes.CODE_SUCCESS
	res.Msg = "success"
	c.JSON(http.StatusOK, res)
}

// Status exposes the sync state for the non-blocking save-failure banner.
func Status(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix(), Code: codes.CODE_SUCCESS, Msg: "success"}
	st := system.GetStore()
	res.Data = gin.H{
		"loaded": st.Loaded(),
		"state":  st.State(),
	}
	c.JSON(http.StatusOK, res)
}

// Collection returns one collection's records. Always an array, never null.
func Collection(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix(), Code: codes.CODE_SUCCESS, Msg: "success"}
	name := c.Param("name")
	res.Data = gin.H{
		"name":    name,
		"records": system.GetStore().GetCollection(name),
	}
	c.JSON(http.StatusOK, res)
}

// AddItem appends a record to a collection.
func AddItem(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix()}
	name := c.Param("name")

	var req AddItemReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Record == nil {
		res.Code = codes.CODE_ERR_REQFORMAT
		res.Msg = "invalid record body"
		c.JSON(http.StatusOK, res)
		return
	}
	if req.Record.ID() == "" {
		req.Record["id"] = newRecordID()
	}
	if err := system.GetStore().AddItem(name, req.Record); err != nil {
		res.Code = codes.CODE_ERR_BAD_PARAMS
		res.Msg = err.Error()
		c.JSON(http.StatusOK, res)
		return
	}

	res.Code = codes.CODE_SUCCESS
	res.Msg = "success"
	res.Data = gin.H{"id": req.Record.ID()}
	c.JSON(http.StatusOK, res)
}

// UpdateItem shallow-merges partial fields into a record. A missing id is a
// no-op, mirroring the store contract, so the response is success either
// way.
func UpdateItem(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix()}
	name := c.Param("name")
	id := c.Param("id")

	var req UpdateItemReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Partial == nil {
		res.Code = codes.CODE_ERR_REQFORMAT
		res.Msg = "invalid partial body"
		c.JSON(http.StatusOK, res)
		return
	}
	if err := system.GetStore().UpdateItem(name, id, req.Partial); err != nil {
		res.Code = codes.CODE_ERR_BAD_PARAMS
		res.Msg = err.Error()
		c.JSON(http.StatusOK, res)
		return
	}

	res.Code = codes.CODE_SUCCESS
	res.Msg = "success"
	c.JSON(http.StatusOK, res)
}

// DeleteItem removes a record; missing ids are a silent no-op.
func DeleteItem(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix(), Code: codes.CODE_SUCCESS, Msg: "success"}
	system.GetStore().DeleteItem(c.Param("name"), c.Param("id"))
	c.JSON(http.StatusOK, res)
}

// SetCollection atomically replaces a collection's contents.
func SetCollection(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix()}
	name := c.Param("name")

	var req SetCollectionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		res.Code = codes.CODE_ERR_REQFORMAT
		res.Msg = "invalid records body"
		c.JSON(http.StatusOK, res)
		return
	}
	if err := system.GetStore().SetCollection(name, req.Records); err != nil {
		res.Code = codes.CODE_ERR_BAD_PARAMS
		res.Msg = err.Error()
		c.JSON(http.StatusOK, res)
		return
	}

	res.Code = codes.CODE_SUCCESS
	res.Msg = "success"
	c.JSON(http.StatusOK, res)
}

// Roll rolls dice over HTTP; the result still reaches the table over the
// socket.
func Roll(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix()}

	var req RollReq
	if err := c.ShouldBindJSON(&req); err != nil {
		res.Code = codes.CODE_ERR_REQFORMAT
		res.Msg = "invalid roll body"
		c.JSON(http.StatusOK, res)
		return
	}
	viewerNo := c.GetString("viewer_no")
	name := c.GetString("display_name")
	role := model.RolePlayer
	if c.GetBool("elevated") {
		role = model.RoleDM
	}
	roll, err := system.GetGame().RollDice(role, viewerNo, name, req.Spec)
	if err != nil {
		res.Code = codes.CODE_ERR_BAD_PARAMS
		res.Msg = err.Error()
		c.JSON(http.StatusOK, res)
		return
	}

	res.Code = codes.CODE_SUCCESS
	res.Msg = "success"
	res.Data = roll
	c.JSON(http.StatusOK, res)
}
