package setting

import (
	"errors"

	"github.com/gin-gonic/gin"

	settingModel "redpacket/app/models/setting"
	"redpacket/app/repositories"
	"redpacket/app/requests"
	"redpacket/pkg/response"
)

// SettingController 红包默认设置
type SettingController struct {
	settings repositories.SettingRepository
}

// NewSettingController 创建控制器
func NewSettingController(settings repositories.SettingRepository) *SettingController {
	return &SettingController{settings: settings}
}

// Show 获取设置，未保存过时返回默认值
func (sc *SettingController) Show(c *gin.Context) {
	s, err := sc.settings.Get(c.Request.Context())
	if err != nil {
		response.Abort500(c, "获取设置失败")
		return
	}
	response.Data(c, s)
}

// Update 保存设置
func (sc *SettingController) Update(c *gin.Context) {
	req, err := requests.ValidateSetting(c)
	if err != nil {
		var verr requests.ValidationError
		if errors.As(err, &verr) {
			response.ValidationError(c, verr.Errors)
			return
		}
		response.BadRequest(c, err, "请求参数错误")
		return
	}

	s := &settingModel.Setting{
		DisplayName:  req.DisplayName,
		ActualAmount: req.Decimal(),
		SenderName:   req.SenderName,
		Message:      req.Message,
	}
	if err := sc.settings.Save(c.Request.Context(), s); err != nil {
		response.Abort500(c, "更新设置失败")
		return
	}
	response.Data(c, s)
}

// Reset 恢复默认设置
func (sc *SettingController) Reset(c *gin.Context) {
	s := settingModel.Default()
	if err := sc.settings.Save(c.Request.Context(), s); err != nil {
		response.Abort500(c, "重置设置失败")
		return
	}
	response.Data(c, s)
}
