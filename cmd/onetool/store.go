package main

import (
	"fmt"
	"net/http"

	"github.com/akeil/onetool/internal/logging"
	"github.com/akeil/onetool/pkg/bridge"
)

func doInit(s settings) error {
	store, err := setupStore(s)
	if err != nil {
		return err
	}
	err = store.Init()
	if err != nil {
		return err
	}
	fmt.Printf("%v Store ready in %q\n", checkmark, s.storeDir)
	return nil
}

func doMkNotebook(s settings, name string) error {
	store, err := setupStore(s)
	if err != nil {
		return err
	}
	id, err := store.AddNotebook(name)
	if err != nil {
		return err
	}
	fmt.Printf("%v Added notebook %q (%v)\n", checkmark, name, id)
	return nil
}

func doMkSection(s settings, parent, name string) error {
	store, err := setupStore(s)
	if err != nil {
		return err
	}
	id, err := store.AddSection(parent, name)
	if err != nil {
		return err
	}
	fmt.Printf("%v Added section %q (%v)\n", checkmark, name, id)
	return nil
}

func doServe(s settings, addr string) error {
	store, err := setupStore(s)
	if err != nil {
		return err
	}

	logging.Info("Serving %q on %v", s.storeDir, addr)
	fmt.Printf("Listening on ws://%v/\n", addr)
	return http.ListenAndServe(addr, bridge.NewServer(store, s.token))
}
