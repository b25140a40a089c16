package mib

var PaddedPrefixEqual = paddedPrefixEqual
