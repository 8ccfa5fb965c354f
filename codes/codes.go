package codes

const (
	CODE_SUCCESS = 10000

	CODE_ERR_BAD_PARAMS    = 40001
	CODE_ERR_REQFORMAT     = 40002
	CODE_ERR_OBJ_NOT_FOUND = 40004
	CODE_ERR_EXIST_OBJ     = 40005
	CODE_ERR_REQ_EXPIRED   = 40006
	CODE_ERR_REPEAT        = 40007
	CODE_ERR_SECURITY      = 40100
	CODE_ERR_FORBIDDEN     = 40300
	CODE_ERR_PROCESSING    = 50001
	CODE_ERR_SAVE_FAILED   = 50002
	CODE_ERR_UNKNOWN       = 59999
)
