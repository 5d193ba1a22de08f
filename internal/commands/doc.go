package commands

// Package commands registers the backend commands the desktop view invokes
// (get_menu and download) on a bridge.Router.
