package models

import (
	"time"
)

/*
LOAD → raw rows as they come out of the two sheets.
*/

// FormResponse is one row of the "Form Responses 1" sheet.
type FormResponse struct {
	OrderID         string `csv:"Order ID"`
	Timestamp       string `csv:"Timestamp"`
	Email           string `csv:"Email Address"`
	FirstName       string `csv:"First Name"`
	LastName        string `csv:"Last Name"`
	OrderType       string `csv:"Order Type"`
	Course          string `csv:"Course"`
	Section         string `csv:"Section"`
	Team            string `csv:"Team or Group"`
	Professor       string `csv:"Professor"`
	FabricationType string `csv:"Fabrication Type"`
	OrderStatus     string `csv:"Order Status"`
}

// PrintBatch is one row of the "Print Batches" sheet. MaterialQty is grams,
// kept as free text because the sheet does not validate it.
type PrintBatch struct {
	OrderID      string `csv:"Order ID"`
	BatchID      string `csv:"Print Batch ID"`
	MachineID    string `csv:"Machine ID"`
	MaterialType string `csv:"Material Type"`
	Status       string `csv:"Print Batch Status"`
	MaterialQty  string `csv:"Material Qty."`
}

/*
COMPUTE → records flowing through the pipeline.
*/

// OrderRecord is the projection of a submission used by the reports.
// Course is blank and MassKg zero when the report does not need them.
type OrderRecord struct {
	OrderID   string
	Timestamp string
	Course    string
	MassKg    float64
}

// ClassifiedRecord is an OrderRecord placed in a semester week.
type ClassifiedRecord struct {
	OrderRecord
	Date     time.Time
	Week     int
	Semester string
}

/*
CONFIG → run parameters
*/

// SemesterSpec is a semester window as written in configuration.
type SemesterSpec struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
	Tag   string `yaml:"tag"`
}

// Config holds the parameters passed to the pipeline.
type Config struct {
	Today    time.Time // reporting date, date part only
	Progress bool      // render a progress bar over the pipeline stages
}
