package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"showtime/api/api/common"
	"showtime/api/codes"
	"showtime/api/config"
	"showtime/api/log"
	"showtime/api/model"
	"showtime/api/security"
	"showtime/api/system"
	"showtime/api/tools"
)

// Login finds or creates a viewer account and issues a session token. Real
// identity (email/OAuth) is the identity provider's business; this endpoint
// only maps the provider's subject onto a table seat.
func Login(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix()}

	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil || req.DisplayName == "" {
		res.Code = codes.CODE_ERR_REQFORMAT
		res.Msg = "display_name is required"
		c.JSON(http.StatusOK, res)
		return
	}

	db := system.GetDb()
	var acct model.ViewerAccount
	var err error
	if req.ViewerNo != "" {
		err = db.Where("viewer_no = ?", req.ViewerNo).First(&acct).Error
	} else {
		err = gorm.ErrRecordNotFound
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		acct = model.ViewerAccount{
			ViewerNo:    uuid.NewString(),
			DisplayName: req.DisplayName,
			Color:       req.Color,
			AddTime:     tools.FromTime(time.Now()),
		}
		if err := db.Create(&acct).Error; err != nil {
			log.Error("login: create account failed", err)
			res.Code = codes.CODE_ERR_UNKNOWN
			res.Msg = "account create failed"
			c.JSON(http.StatusOK, res)
			return
		}
	} else if err != nil {
		log.Error("login: account lookup failed", err)
		res.Code = codes.CODE_ERR_UNKNOWN
		res.Msg = "account lookup failed"
		c.JSON(http.StatusOK, res)
		return
	}

	token, err := security.IssueToken(config.Get().Game.JwtSecret, acct.ViewerNo, acct.DisplayName, acct.Elevated)
	if err != nil {
		log.Error("login: token issue failed", err)
		res.Code = codes.CODE_ERR_UNKNOWN
		res.Msg = "token issue failed"
		c.JSON(http.StatusOK, res)
		return
	}

	res.Code = codes.CODE_SUCCESS
	res.Msg = "success"
	res.Data = gin.H{
		"token":   token,
		"account": acct,
		"ops":     security.AllowedOps(acct.Role()),
	}
	c.JSON(http.StatusOK, res)
}

// Elevate grants the dungeon-master role after the passphrase check. The
// elevated flag persists on the account row until an explicit revoke, so it
// survives reloads.
func Elevate(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix()}

	var req ElevateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		res.Code = codes.CODE_ERR_REQFORMAT
		res.Msg = "invalid body"
		c.JSON(http.StatusOK, res)
		return
	}
	if !security.CheckPassphrase(req.Passphrase, config.Get().Game.DMPassphrase) {
		log.Warnf("elevate: wrong passphrase from %s", c.GetString("viewer_no"))
		res.Code = codes.CODE_ERR_SECURITY
		res.Msg = "wrong passphrase"
		c.JSON(http.StatusOK, res)
		return
	}

	setElevated(c, &res, true)
}

// Revoke drops the dungeon-master grant.
func Revoke(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix()}
	setElevated(c, &res, false)
}

func setElevated(c *gin.Context, res *common.Response, elevated bool) {
	viewerNo := c.GetString("viewer_no")
	db := system.GetDb()

	var acct model.ViewerAccount
	if err := db.Where("viewer_no = ?", viewerNo).First(&acct).Error; err != nil {
		res.Code = codes.CODE_ERR_OBJ_NOT_FOUND
		res.Msg = "account not found"
		c.JSON(http.StatusOK, *res)
		return
	}
	if err := db.Model(&acct).Update("elevated", elevated).Error; err != nil {
		log.Error("elevate: update failed", err)
		res.Code = codes.CODE_ERR_UNKNOWN
		res.Msg = "update failed"
		c.JSON(http.StatusOK, *res)
		return
	}
	acct.Elevated = elevated

	token, err := security.IssueToken(config.Get().Game.JwtSecret, acct.ViewerNo, acct.DisplayName, elevated)
	if err != nil {
		res.Code = codes.CODE_ERR_UNKNOWN
		res.Msg = "token issue failed"
		c.JSON(http.StatusOK, *res)
		return
	}

	res.Code = codes.CODE_SUCCESS
	res.Msg = "success"
	res.Data = gin.H{
		"token":   token,
		"account": acct,
		"ops":     security.AllowedOps(acct.Role()),
	}
	c.JSON(http.StatusOK, *res)
}

// Profile returns the caller's account and the operations its role unlocks.
func Profile(c *gin.Context) {
	res := common.Response{Timestamp: time.Now().Unix()}
	viewerNo := c.GetString("viewer_no")

	var acct model.ViewerAccount
	if err := system.GetDb().Where("viewer_no = ?", viewerNo).First(&acct).Error; err != nil {
		res.Code = codes.CODE_ERR_OBJ_NOT_FOUND
		res.Msg = "account not found"
		c.JSON(http.StatusOK, res)
		return
	}

	res.Code = codes.CODE_SUCCESS
	res.Msg = "success"
	res.Data = gin.H{
		"account": acct,
		"ops":     security.AllowedOps(acct.Role()),
	}
	c.JSON(http.StatusOK, res)
}
