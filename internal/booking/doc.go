// Package booking holds the booking lifecycle rules: hourly slot generation
// for a screen's availability window, price and fee arithmetic, schedule
// validation and the status state machine. Nothing in here touches storage;
// callers fetch rows and pass plain values in.
package booking
