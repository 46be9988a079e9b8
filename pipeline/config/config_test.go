package config

import "testing"

type discardLogger struct{}

func (discardLogger) Debug(string, ...interface{})     {}
func (discardLogger) Info(string, ...interface{})      {}
func (discardLogger) Warning(string, ...interface{})   {}
func (discardLogger) Error(string, ...interface{})     {}
func (discardLogger) Fatal(string, ...interface{})     {}
func (discardLogger) SetLevel(int8)                    {}
func (discardLogger) Log(int8, string, ...interface{}) {}

func TestUpdateSetsFields(t *testing.T) {
	c := New(discardLogger{})
	c.Update(map[string]string{
		KeySensorsLayout: "1x1",
		KeyBinWidth:      "5",
		KeyRawData:       "true",
	})
	if c.SensorsLayout != "1x1" {
		t.Errorf("SensorsLayout = %q, want 1x1", c.SensorsLayout)
	}
	if c.BinWidth != 5 {
		t.Errorf("BinWidth = %v, want 5", c.BinWidth)
	}
	if !c.RawData {
		t.Error("RawData = false, want true")
	}
}

func TestValidateDefaultsEmptyFields(t *testing.T) {
	c := &Config{Logger: discardLogger{}}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if c.SensorsLayout != defaultSensorsLayout {
		t.Errorf("SensorsLayout = %q, want %q", c.SensorsLayout, defaultSensorsLayout)
	}
	if c.FemPortMap != defaultFemPortMap {
		t.Errorf("FemPortMap = %q, want %q", c.FemPortMap, defaultFemPortMap)
	}
	if c.ThresholdMode != ThresholdModeNone {
		t.Errorf("ThresholdMode = %q, want %q", c.ThresholdMode, ThresholdModeNone)
	}
}

func TestValidateRejectsInvalidThresholdMode(t *testing.T) {
	c := New(discardLogger{})
	c.ThresholdMode = "bogus"
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if c.ThresholdMode != ThresholdModeNone {
		t.Errorf("ThresholdMode = %q, want reset to %q", c.ThresholdMode, ThresholdModeNone)
	}
}

func TestValidateRejectsEvenPixelGridSize(t *testing.T) {
	c := New(discardLogger{})
	c.PixelGridSize = 4
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if c.PixelGridSize != defaultPixelGridSize {
		t.Errorf("PixelGridSize = %d, want default %d", c.PixelGridSize, defaultPixelGridSize)
	}
}
