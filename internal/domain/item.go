package domain

import "github.com/shopspring/decimal"

type Item struct {
	ID    int64           `db:"id" json:"id"`
	Name  string          `db:"name" json:"name"`
	Price decimal.Decimal `db:"price" json:"price"`
}

type UpdateItemInput struct {
	Name  *string          `json:"name"`
	Price *decimal.Decimal `json:"price"`
}
