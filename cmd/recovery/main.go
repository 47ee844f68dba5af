package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/mahdiidarabi/secp256k1-recover/internal/config"
	"github.com/mahdiidarabi/secp256k1-recover/internal/program"
	"github.com/mahdiidarabi/secp256k1-recover/pkg/ethrecover"
)

func main() {
	var (
		publicKey   = flag.String("public-key", "", "Claimed public key in hex (64 bytes, x || y)")
		address     = flag.String("address", "", "Claimed Ethereum address in hex (used when --public-key is empty)")
		message     = flag.String("message", "", "Message as UTF-8 text")
		messageHex  = flag.String("message-hex", "", "Message as hex (overrides --message)")
		signature   = flag.String("signature", "", "Signature in hex (64 bytes r || s, or 65 bytes r || s || v)")
		recoveryID  = flag.String("recovery-id", "", "Recovery id (0 or 1)")
		v           = flag.String("v", "", "Wallet v value (0/1, 27/28 or EIP-155)")
		requests    = flag.String("requests", "", "Path to a request file to verify in batch")
		format      = flag.String("format", "", "Request file format: json, csv or cbor (default from REQUEST_FORMAT)")
		numWorkers  = flag.Int("workers", -1, "Number of parallel workers (0 = one per CPU, default from VERIFY_WORKERS)")
		instruction = flag.String("instruction", "", "Execute raw instruction data given in hex")
	)
	flag.Parse()

	config.InitConfig()

	var err error
	switch {
	case *instruction != "":
		err = runInstruction(*instruction)
	case *requests != "":
		workers := config.AppConfig.Workers
		if *numWorkers >= 0 {
			workers = *numWorkers
		}
		requestFormat := config.AppConfig.RequestFormat
		if *format != "" {
			requestFormat = strings.ToLower(*format)
		}
		err = runBatch(*requests, requestFormat, workers)
	case *signature != "":
		err = runSingle(ethrecover.RequestText{
			PublicKey:  *publicKey,
			Address:    *address,
			Message:    *message,
			MessageHex: *messageHex,
			Signature:  *signature,
			RecoveryID: *recoveryID,
			V:          *v,
		})
	default:
		fmt.Fprintf(os.Stderr, "Error: one of --signature, --requests or --instruction is required\n")
		flag.Usage()
		os.Exit(1)
	}

	if err != nil {
		log.Errorf("Verification failed: %v", err)
		os.Exit(1)
	}
}

func runSingle(raw ethrecover.RequestText) error {
	req, err := raw.Build()
	if err != nil {
		return err
	}

	if ethrecover.IsHighS(req.Signature) {
		log.Warn("signature with high-s value")
	}

	if err := req.Verify(); err != nil {
		return fmt.Errorf("%s: %w", ethrecover.KindOf(err), err)
	}

	fields := log.Fields{"recovery_id": req.RecoveryID}
	if req.PublicKey != (ethrecover.PublicKey{}) {
		fields["address"] = req.PublicKey.Address().Hex()
	} else {
		fields["address"] = req.Address.Hex()
	}
	log.WithFields(fields).Info("Signature verified")
	return nil
}

func runBatch(source, format string, workers int) error {
	var parser ethrecover.RequestParser
	switch format {
	case "json":
		parser = &ethrecover.JSONParser{}
	case "csv":
		parser = &ethrecover.CSVParser{}
	case "cbor":
		parser = &ethrecover.CBORParser{}
	default:
		return fmt.Errorf("unsupported request format %q", format)
	}

	client := ethrecover.NewClient().WithParser(parser).WithWorkers(workers)

	log.Infof("Loading requests from %s...", source)
	outcomes, err := client.VerifyFile(context.Background(), source)
	if err != nil {
		return err
	}

	for _, o := range outcomes {
		if o.OK() {
			log.WithField("index", o.Index).Debug("Request verified")
			continue
		}
		log.WithFields(log.Fields{
			"index": o.Index,
			"kind":  o.Kind().String(),
		}).Warnf("Request rejected: %v", o.Err)
	}

	failed := ethrecover.CountFailures(outcomes)
	log.Infof("Verified %d/%d requests", len(outcomes)-failed, len(outcomes))
	if failed > 0 {
		return fmt.Errorf("%d of %d requests failed", failed, len(outcomes))
	}
	return nil
}

func runInstruction(dataHex string) error {
	data, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(dataHex), "0x"))
	if err != nil {
		return fmt.Errorf("failed to parse instruction data: %w", err)
	}

	if err := program.NewProcessor(log.StandardLogger()).Process(data); err != nil {
		return err
	}
	log.Info("Instruction completed")
	return nil
}
