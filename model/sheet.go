package model

// SheetQuestion is one curated practice problem. Its id is a string key.
type SheetQuestion struct {
	ID         string   `bson:"_id" json:"id"`
	QuesLink   string   `bson:"quesLink" json:"quesLink"`
	QuesName   string   `bson:"quesName" json:"quesName"`
	SpecialTag string   `bson:"specialTag" json:"specialTag"`
	Tags       []string `bson:"tags" json:"tags"`
}

type SheetProgress struct {
	SheetQuestion `bson:",inline"`
	IsCompleted   bool `json:"isCompleted"`
}
