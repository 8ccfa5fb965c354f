package auth

type LoginReq struct {
	ViewerNo    string `json:"viewer_no"`
	DisplayName string `json:"display_name"`
	Color       string `json:"color"`
}

type ElevateReq struct {
	Passphrase string `json:"passphrase"`
}
