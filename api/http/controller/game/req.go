package game

import "showtime/api/model"

type AddItemReq struct {
	Record model.Record `json:"record"`
}

type UpdateItemReq struct {
	Partial model.Record `json:"partial"`
}

type SetCollectionReq struct {
	Records []model.Record `json:"records"`
}

type RollReq struct {
	Spec string `json:"spec"`
}
