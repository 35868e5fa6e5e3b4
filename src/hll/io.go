package hll

import (
	"fmt"
	"io/ioutil"

	"gopkg.in/vmihailenco/msgpack.v2"
)

// hllRecord is the serialized form of a HyperLogLog
type hllRecord struct {
	Registers []uint8
	Precision uint
	Ksize     int
}

// Dump is a method to write the estimator to file
func (hll *HyperLogLog) Dump(path string) error {
	record := &hllRecord{
		Registers: hll.registers,
		Precision: hll.p,
		Ksize:     hll.ksize,
	}
	data, err := msgpack.Marshal(record)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, data, 0644)
}

// Load is a method to populate the estimator from file
func (hll *HyperLogLog) Load(path string) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	return hll.LoadFromBytes(data)
}

// LoadFromBytes is a method to populate the estimator from a byte slice
func (hll *HyperLogLog) LoadFromBytes(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("no data received to load the HyperLogLog from")
	}
	record := &hllRecord{}
	if err := msgpack.Unmarshal(data, record); err != nil {
		return err
	}
	if len(record.Registers) != 1<<record.Precision {
		return fmt.Errorf("HyperLogLog file is corrupted")
	}
	hll.registers = record.Registers
	hll.p = record.Precision
	hll.ksize = record.Ksize
	return nil
}
