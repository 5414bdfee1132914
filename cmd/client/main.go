package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"gitlab.com/dirk.krummacker/contact-store/internal/config"
	pub "gitlab.com/dirk.krummacker/contact-store/pkg/model"
)

const benchmarkName = "Marcus Antonius"

// Usage example on the command line:
// > PORT=8080 go run main.go
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("could not load configuration", err)
		panic(err)
	}
	baseURL := fmt.Sprintf("http://localhost:%d/contacts", cfg.Port)

	fmt.Println()
	fmt.Println("  Elements      POST       PUT  GET(all)    DELETE ")
	fmt.Println("---------------------------------------------------")
	sizes := []int{1000, 5000, 10000, 50000, 100000}
	jsonBody := []byte(`{
		"name": "` + benchmarkName + `",
		"number": "+39 999 777 555"
	}`)
	for _, loops := range sizes {
		fmt.Printf("%10d", loops)
		{
			// POST requests
			var duration int64
			for i := 0; i < loops; i++ {
				_, d := sendRequest(http.MethodPost, baseURL, bytes.NewReader(jsonBody))
				duration += d
			}
			fmt.Printf("%10d", duration/int64(loops*1000))
		}
		// The service does not return ids for new contacts.
		ids, getDuration := findBenchmarkIDs(baseURL)
		{
			// PUT requests
			f := func(id int64) int64 {
				return sendByIDRequest(baseURL, id, http.MethodPut, bytes.NewReader(jsonBody))
			}
			callInLoop(ids, f)
		}
		fmt.Printf("%10d", getDuration/1000)
		{
			// DELETE requests
			f := func(id int64) int64 {
				return sendByIDRequest(baseURL, id, http.MethodDelete, nil)
			}
			callInLoop(ids, f)
		}
		fmt.Println()
	}
}

// findBenchmarkIDs lists all contacts once and returns the ids of the
// benchmark contacts in random order, plus the duration of the list call.
func findBenchmarkIDs(baseURL string) ([]int64, int64) {
	resBody, duration := sendRequest(http.MethodGet, baseURL, nil)
	var contacts []pub.Contact
	if err := json.Unmarshal(resBody, &contacts); err != nil {
		fmt.Println("could not unmarshal JSON", err)
		panic(err)
	}
	ids := make([]int64, 0, len(contacts))
	for _, contact := range contacts {
		if contact.Name == benchmarkName {
			ids = append(ids, contact.Id)
		}
	}
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids, duration
}

func callInLoop(ids []int64, f func(id int64) int64) {
	if len(ids) == 0 {
		fmt.Printf("%10s", "-")
		return
	}
	var duration int64
	for _, id := range ids {
		d := f(id)
		duration += d
	}
	fmt.Printf("%10d", duration/int64(len(ids)*1000))
}

func sendByIDRequest(baseURL string, id int64, method string, bodyReader io.Reader) int64 {
	requestURL := fmt.Sprintf("%s/%d", baseURL, id)
	_, duration := sendRequest(method, requestURL, bodyReader)
	return duration
}

func sendRequest(method string, requestURL string, bodyReader io.Reader) ([]byte, int64) {
	req, err := http.NewRequest(method, requestURL, bodyReader)
	if err != nil {
		fmt.Println("could not create request", err)
		panic(err)
	}
	before := time.Now().UnixNano()
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("error making http request", err)
		panic(err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Println("could not read response body", err)
		panic(err)
	}
	after := time.Now().UnixNano()
	return resBody, after - before
}
