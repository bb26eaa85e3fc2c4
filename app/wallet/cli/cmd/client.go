package cmd

import (
	"fmt"
	"time"

	"github.com/ardanlabs/floodchain/business/web/errs"
	"github.com/go-resty/resty/v2"
)

var client = resty.New().SetTimeout(time.Minute)

// post sends the body to the node and decodes the response into result.
func post(path string, body any, result any) error {
	var errResp errs.Response

	req := client.R().SetResult(result).SetError(&errResp)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Post(url + path)
	if err != nil {
		return err
	}

	return checkResponse(resp, errResp)
}

// get reads from the node and decodes the response into result.
func get(path string, result any) error {
	var errResp errs.Response

	resp, err := client.R().SetResult(result).SetError(&errResp).Get(url + path)
	if err != nil {
		return err
	}

	return checkResponse(resp, errResp)
}

func checkResponse(resp *resty.Response, errResp errs.Response) error {
	if !resp.IsError() {
		return nil
	}

	if errResp.Error == "" {
		return fmt.Errorf("node responded %s", resp.Status())
	}

	if len(errResp.Fields) > 0 {
		return fmt.Errorf("%s: %v", errResp.Error, errResp.Fields)
	}

	return fmt.Errorf("%s", errResp.Error)
}
