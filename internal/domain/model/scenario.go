package model

import "fmt"

// Scenario is a trained model variant: GRU hyperparameters plus its prediction file.
type Scenario struct {
	ID         int    `json:"id"`
	Units      int    `json:"units"`
	WindowSize int    `json:"window_size"`
	MaxEpochs  int    `json:"max_epochs"`
	File       string `json:"-"`
}

// Name is the label shown in the model picker.
func (s Scenario) Name() string {
	return fmt.Sprintf("Model %d", s.ID)
}

// Dataset is the metrics label for the scenario's backing file.
func (s Scenario) Dataset() string {
	return fmt.Sprintf("scenario_%d", s.ID)
}
